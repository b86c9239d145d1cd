package notebook

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// IDGenerator produces cell identifiers.
type IDGenerator func() string

// ShortUUID returns the first group of a random UUIDv4, e.g. "1b4e28ba".
func ShortUUID() string {
	id, _, _ := strings.Cut(uuid.NewString(), "-")
	return id
}

// NewID is used for every cell this package creates.
var NewID IDGenerator = ShortUUID

// New returns an empty notebook at the current schema version.
func New() *Notebook {
	return &Notebook{
		Format:      FormatMajor,
		FormatMinor: FormatMinor,
		Cells:       []Cell{},
	}
}

// AppendCode adds a code cell built from source. Surrounding whitespace is
// trimmed. A hidden cell has its source collapsed in the front end.
func (nb *Notebook) AppendCode(source string, hidden bool) *CodeCell {
	cell := &CodeCell{
		CellBase: CellBase{
			ID:     NewID(),
			Source: SplitLines(strings.TrimSpace(source)),
		},
		Outputs: []json.RawMessage{},
	}
	if hidden {
		yes := true
		cell.Metadata.Jupyter = &JupyterCellMetadata{SourceHidden: &yes}
	}
	nb.Cells = append(nb.Cells, cell)
	return cell
}
