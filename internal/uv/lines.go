package uv

import (
	"bytes"
	"io"
)

// LineFilter passes complete lines to Fn and forwards those Fn does not
// consume to Dst. Call Flush after the process exits to handle a final
// unterminated line.
type LineFilter struct {
	Dst io.Writer
	Fn  func(line string) (consumed bool)

	buf []byte
}

func (f *LineFilter) Write(p []byte) (int, error) {
	f.buf = append(f.buf, p...)
	for {
		i := bytes.IndexByte(f.buf, '\n')
		if i < 0 {
			return len(p), nil
		}
		line := f.buf[:i+1]
		if err := f.emit(line); err != nil {
			return len(p), err
		}
		f.buf = f.buf[i+1:]
	}
}

// Flush emits any buffered partial line.
func (f *LineFilter) Flush() error {
	if len(f.buf) == 0 {
		return nil
	}
	line := f.buf
	f.buf = nil
	return f.emit(line)
}

func (f *LineFilter) emit(line []byte) error {
	if f.Fn != nil && f.Fn(string(line)) {
		return nil
	}
	_, err := f.Dst.Write(line)
	return err
}
