package notebook

import (
	"encoding/json"
	"strings"
)

// Source is cell text stored as lines. Every line keeps its trailing newline
// except possibly the last, so joining the lines gives back the exact text.
type Source []string

// SplitLines splits text after every "\n". An empty string yields no lines.
func SplitLines(text string) Source {
	if text == "" {
		return Source{}
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return Source(lines)
}

// String joins the lines back into the original text.
func (s Source) String() string {
	return strings.Join(s, "")
}

// UnmarshalJSON accepts both the multiline-string array form and a single
// string, which nbformat allows interchangeably.
func (s *Source) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*s = Source{}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = SplitLines(text)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	if lines == nil {
		lines = []string{}
	}
	*s = Source(lines)
	return nil
}

// MarshalJSON always writes the array form.
func (s Source) MarshalJSON() ([]byte, error) {
	lines := []string(s)
	if lines == nil {
		lines = []string{}
	}
	return encodeJSON(lines)
}
