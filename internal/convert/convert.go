// Package convert renders notebooks as percent-format scripts or Markdown.
// Both projections are pure: the notebook is never modified.
package convert

import (
	"bytes"
	"fmt"
	"io"

	"github.com/starford/juv/internal/notebook"
)

// Format selects a projection.
type Format string

const (
	FormatScript   Format = "script"
	FormatMarkdown Format = "markdown"
)

// Ext is the file extension pagers and editors expect for the format.
func (f Format) Ext() string {
	if f == FormatScript {
		return "py"
	}
	return "md"
}

// Render writes nb to w in the given format.
func Render(w io.Writer, nb *notebook.Notebook, f Format) error {
	switch f {
	case FormatScript:
		return WriteScript(w, nb)
	case FormatMarkdown:
		return WriteMarkdown(w, nb)
	default:
		return fmt.Errorf("convert: unknown format %q", f)
	}
}

// cellSeparator sits between cells. Sources rarely end in a newline, so this
// leaves one blank line between renderings.
const cellSeparator = "\n\n"

type writer struct {
	w   io.Writer
	err error
}

func (w *writer) str(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) lines(prefix string, src notebook.Source) {
	for _, line := range src {
		w.str(prefix)
		w.str(line)
	}
}

func render(nb *notebook.Notebook, fn func(io.Writer, *notebook.Notebook) error) string {
	var buf bytes.Buffer
	// bytes.Buffer writes do not fail and every cell type is handled.
	_ = fn(&buf, nb)
	return buf.String()
}
