// Package notebook models nbformat documents: ordered code, markdown and raw
// cells plus notebook metadata, read from and written back to JSON without
// losing keys it does not understand.
package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Current schema version written by New and by the legacy upgrade.
const (
	FormatMajor = 4
	FormatMinor = 5
)

// Notebook is an in-memory nbformat v4 document.
type Notebook struct {
	Format      int
	FormatMinor int
	Metadata    Metadata
	Cells       []Cell
	// Extra holds unknown top-level keys.
	Extra map[string]json.RawMessage
}

// Load parses a notebook document. Documents older than v4 are upgraded.
func Load(data []byte) (*Notebook, error) {
	var head struct {
		Format *int `json:"nbformat"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, formatErr("invalid JSON", err)
	}
	if head.Format == nil {
		return nil, formatErr("missing nbformat version", nil)
	}

	switch v := *head.Format; {
	case v == FormatMajor:
		var nb Notebook
		if err := json.Unmarshal(data, &nb); err != nil {
			return nil, formatErr("invalid v4 document", err)
		}
		return &nb, nil
	case v == 3:
		nb, err := upgradeV3(data)
		if err != nil {
			return nil, formatErr("cannot upgrade v3 document", err)
		}
		return nb, nil
	default:
		return nil, formatErr(fmt.Sprintf("unsupported nbformat %d", v), nil)
	}
}

// Save serialises the notebook the way Jupyter does: one-space indent,
// sorted keys, unescaped markup and a trailing newline.
func (nb *Notebook) Save() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	if err := enc.Encode(nb); err != nil {
		return nil, fmt.Errorf("notebook: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// IsCleared reports whether no code cell has an execution count or outputs.
func (nb *Notebook) IsCleared() bool {
	for _, c := range nb.CodeCells() {
		if !c.Cleared() {
			return false
		}
	}
	return true
}

// ClearOutputs resets every code cell's execution count and outputs.
func (nb *Notebook) ClearOutputs() {
	for _, c := range nb.CodeCells() {
		c.Clear()
	}
}

// CodeCells returns the code cells in document order.
func (nb *Notebook) CodeCells() []*CodeCell {
	var out []*CodeCell
	for _, c := range nb.Cells {
		if code, ok := c.(*CodeCell); ok {
			out = append(out, code)
		}
	}
	return out
}

func (nb *Notebook) UnmarshalJSON(data []byte) error {
	o, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out Notebook
	if _, err := o.take("nbformat", &out.Format); err != nil {
		return fmt.Errorf("nbformat: %w", err)
	}
	if _, err := o.take("nbformat_minor", &out.FormatMinor); err != nil {
		return fmt.Errorf("nbformat_minor: %w", err)
	}
	if _, err := o.take("metadata", &out.Metadata); err != nil {
		return fmt.Errorf("metadata: %w", err)
	}
	var rawCells []json.RawMessage
	if _, err := o.take("cells", &rawCells); err != nil {
		return fmt.Errorf("cells: %w", err)
	}
	out.Cells = make([]Cell, 0, len(rawCells))
	for i, raw := range rawCells {
		cell, err := decodeCell(raw)
		if err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
		out.Cells = append(out.Cells, cell)
	}
	out.Extra = o.rest()
	*nb = out
	return nil
}

func (nb *Notebook) MarshalJSON() ([]byte, error) {
	cells := make([]json.RawMessage, 0, len(nb.Cells))
	for i, c := range nb.Cells {
		data, err := encodeCell(c)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		cells = append(cells, data)
	}
	return encodeJSON(fields(nb.Extra, map[string]any{
		"nbformat":       nb.Format,
		"nbformat_minor": nb.FormatMinor,
		"metadata":       nb.Metadata,
		"cells":          cells,
	}))
}
