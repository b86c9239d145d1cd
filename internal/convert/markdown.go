package convert

import (
	"fmt"
	"io"

	"github.com/starford/juv/internal/notebook"
)

const (
	codeFence  = "```python\n"
	rawFence   = "```\n"
	closeFence = "\n```"
)

// WriteMarkdown renders nb as Markdown: code cells in python fences, raw
// cells in bare fences, markdown cells as-is.
func WriteMarkdown(w io.Writer, nb *notebook.Notebook) error {
	out := &writer{w: w}
	for i, c := range nb.Cells {
		if i > 0 {
			out.str(cellSeparator)
		}
		switch cell := c.(type) {
		case *notebook.CodeCell:
			out.str(codeFence)
			out.lines("", cell.Source)
			out.str(closeFence)
		case *notebook.MarkdownCell:
			out.lines("", cell.Source)
		case *notebook.RawCell:
			out.str(rawFence)
			out.lines("", cell.Source)
			out.str(closeFence)
		default:
			return fmt.Errorf("convert: unsupported cell %T", c)
		}
	}
	return out.err
}

// Markdown returns the Markdown rendering of nb.
func Markdown(nb *notebook.Notebook) string {
	return render(nb, WriteMarkdown)
}
