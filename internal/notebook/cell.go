package notebook

import (
	"encoding/json"
	"fmt"
)

// CellType is the cell_type discriminator.
type CellType string

const (
	CellCode     CellType = "code"
	CellMarkdown CellType = "markdown"
	CellRaw      CellType = "raw"
)

// Cell is one of *CodeCell, *MarkdownCell or *RawCell. The set is closed:
// consumers switch on the concrete type and treat anything else as an error.
type Cell interface {
	Type() CellType
	Base() *CellBase
	sealed()
}

// CellBase carries the fields every cell kind shares.
type CellBase struct {
	// ID is empty for documents older than nbformat 4.5.
	ID       string
	Metadata CellMetadata
	Source   Source
	// Extra holds top-level keys not modelled here, e.g. attachments.
	Extra map[string]json.RawMessage
}

func (b *CellBase) Base() *CellBase { return b }
func (b *CellBase) sealed()         {}

// CodeCell is an executable cell. Outputs are opaque.
type CodeCell struct {
	CellBase
	ExecutionCount *int
	Outputs        []json.RawMessage
}

// MarkdownCell holds prose.
type MarkdownCell struct {
	CellBase
}

// RawCell holds untyped content.
type RawCell struct {
	CellBase
}

func (*CodeCell) Type() CellType     { return CellCode }
func (*MarkdownCell) Type() CellType { return CellMarkdown }
func (*RawCell) Type() CellType      { return CellRaw }

// Cleared reports whether the cell has neither an execution count nor outputs.
func (c *CodeCell) Cleared() bool {
	return c.ExecutionCount == nil && len(c.Outputs) == 0
}

// Clear drops the execution count and all outputs.
func (c *CodeCell) Clear() {
	c.ExecutionCount = nil
	c.Outputs = []json.RawMessage{}
}

func decodeCell(data []byte) (Cell, error) {
	o, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	var kind CellType
	if ok, err := o.take("cell_type", &kind); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("cell_type missing")
	}

	var base CellBase
	if _, err := o.take("id", &base.ID); err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}
	if _, err := o.take("metadata", &base.Metadata); err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	base.Source = Source{}
	if _, err := o.take("source", &base.Source); err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	switch kind {
	case CellCode:
		cell := &CodeCell{}
		if _, err := o.take("execution_count", &cell.ExecutionCount); err != nil {
			return nil, fmt.Errorf("execution_count: %w", err)
		}
		cell.Outputs = []json.RawMessage{}
		if _, err := o.take("outputs", &cell.Outputs); err != nil {
			return nil, fmt.Errorf("outputs: %w", err)
		}
		base.Extra = o.rest()
		cell.CellBase = base
		return cell, nil
	case CellMarkdown:
		base.Extra = o.rest()
		return &MarkdownCell{CellBase: base}, nil
	case CellRaw:
		base.Extra = o.rest()
		return &RawCell{CellBase: base}, nil
	default:
		return nil, fmt.Errorf("unknown cell_type %q", kind)
	}
}

func encodeCell(c Cell) ([]byte, error) {
	b := c.Base()
	known := map[string]any{
		"cell_type": c.Type(),
		"metadata":  b.Metadata,
		"source":    b.Source,
	}
	if b.ID != "" {
		known["id"] = b.ID
	}
	switch cell := c.(type) {
	case *CodeCell:
		outputs := cell.Outputs
		if outputs == nil {
			outputs = []json.RawMessage{}
		}
		known["outputs"] = outputs
		if cell.ExecutionCount != nil {
			known["execution_count"] = *cell.ExecutionCount
		} else {
			known["execution_count"] = nil
		}
	case *MarkdownCell, *RawCell:
	default:
		return nil, fmt.Errorf("unsupported cell %T", c)
	}
	return encodeJSON(fields(b.Extra, known))
}
