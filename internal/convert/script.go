package convert

import (
	"fmt"
	"io"

	"github.com/starford/juv/internal/notebook"
)

// Cell markers of the percent script format.
const (
	codeMarker     = "# %%\n"
	markdownMarker = "# %% [markdown]\n"
	rawMarker      = "# %% [raw]\n"
	commentPrefix  = "# "
)

// WriteScript renders nb as a percent-format script. Code is written
// verbatim; markdown and raw lines are commented out with "# ".
func WriteScript(w io.Writer, nb *notebook.Notebook) error {
	out := &writer{w: w}
	for i, c := range nb.Cells {
		if i > 0 {
			out.str(cellSeparator)
		}
		switch cell := c.(type) {
		case *notebook.CodeCell:
			out.str(codeMarker)
			out.lines("", cell.Source)
		case *notebook.MarkdownCell:
			out.str(markdownMarker)
			out.lines(commentPrefix, cell.Source)
		case *notebook.RawCell:
			out.str(rawMarker)
			out.lines(commentPrefix, cell.Source)
		default:
			return fmt.Errorf("convert: unsupported cell %T", c)
		}
	}
	return out.err
}

// Script returns the percent-format script for nb.
func Script(nb *notebook.Notebook) string {
	return render(nb, WriteScript)
}
