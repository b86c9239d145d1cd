package uv

import (
	"bytes"
	"strings"
	"testing"
)

func TestLineFilter(t *testing.T) {
	var out bytes.Buffer
	var seen []string
	f := &LineFilter{Dst: &out, Fn: func(line string) bool {
		if strings.HasPrefix(line, "MARK ") {
			seen = append(seen, strings.TrimSpace(line))
			return true
		}
		return false
	}}

	for _, chunk := range []string{"hel", "lo\nMARK ", "one\nwor", "ld\nMARK two"} {
		if _, err := f.Write([]byte(chunk)); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.Flush(); err != nil {
		t.Fatal(err)
	}

	if out.String() != "hello\nworld\n" {
		t.Errorf("forwarded = %q", out.String())
	}
	if len(seen) != 2 || seen[0] != "MARK one" || seen[1] != "MARK two" {
		t.Errorf("consumed = %q", seen)
	}
}

func TestLineFilter_NilFn(t *testing.T) {
	var out bytes.Buffer
	f := &LineFilter{Dst: &out}
	_, _ = f.Write([]byte("a\nb"))
	_ = f.Flush()
	if out.String() != "a\nb" {
		t.Errorf("out = %q", out.String())
	}
}
