package notebook

import (
	"encoding/json"
	"fmt"
	"strings"
)

// v3 outputs key their payloads by short names; v4 moves them under data.
var v3MimeTypes = map[string]string{
	"text":       "text/plain",
	"html":       "text/html",
	"svg":        "image/svg+xml",
	"png":        "image/png",
	"jpeg":       "image/jpeg",
	"latex":      "text/latex",
	"json":       "application/json",
	"javascript": "application/javascript",
}

// upgradeV3 converts an nbformat 3 document (cells nested in worksheets) into
// the current schema. Every cell receives a fresh id.
func upgradeV3(data []byte) (*Notebook, error) {
	var doc struct {
		Minor      int             `json:"nbformat_minor"`
		Metadata   json.RawMessage `json:"metadata"`
		Worksheets []struct {
			Cells []json.RawMessage `json:"cells"`
		} `json:"worksheets"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	nb := New()
	if len(doc.Metadata) > 0 && !isNull(doc.Metadata) {
		meta, err := decodeObject(doc.Metadata)
		if err != nil {
			return nil, fmt.Errorf("metadata: %w", err)
		}
		delete(meta, "name")
		delete(meta, "signature")
		raw, err := json.Marshal(meta)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &nb.Metadata); err != nil {
			return nil, fmt.Errorf("metadata: %w", err)
		}
	}
	if nb.Metadata.Additional == nil {
		nb.Metadata.Additional = map[string]json.RawMessage{}
	}
	nb.Metadata.Additional["orig_nbformat"] = json.RawMessage("3")
	nb.Metadata.Additional["orig_nbformat_minor"] = json.RawMessage(fmt.Sprint(doc.Minor))

	for _, ws := range doc.Worksheets {
		for i, raw := range ws.Cells {
			cell, err := upgradeV3Cell(raw)
			if err != nil {
				return nil, fmt.Errorf("cell %d: %w", i, err)
			}
			nb.Cells = append(nb.Cells, cell)
		}
	}
	return nb, nil
}

func upgradeV3Cell(data []byte) (Cell, error) {
	o, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	var kind string
	if _, err := o.take("cell_type", &kind); err != nil {
		return nil, err
	}

	base := CellBase{ID: NewID(), Source: Source{}}
	meta := object{}
	if raw, ok := o["metadata"]; ok && !isNull(raw) {
		if meta, err = decodeObject(raw); err != nil {
			return nil, fmt.Errorf("metadata: %w", err)
		}
	}
	delete(o, "metadata")

	switch kind {
	case "code":
		if raw, ok := o["collapsed"]; ok {
			meta["collapsed"] = raw
			delete(o, "collapsed")
		}
		if _, err := o.take("input", &base.Source); err != nil {
			return nil, fmt.Errorf("input: %w", err)
		}
		cell := &CodeCell{Outputs: []json.RawMessage{}}
		if _, err := o.take("prompt_number", &cell.ExecutionCount); err != nil {
			return nil, fmt.Errorf("prompt_number: %w", err)
		}
		var outputs []json.RawMessage
		if _, err := o.take("outputs", &outputs); err != nil {
			return nil, fmt.Errorf("outputs: %w", err)
		}
		for i, raw := range outputs {
			out, err := upgradeV3Output(raw)
			if err != nil {
				return nil, fmt.Errorf("output %d: %w", i, err)
			}
			cell.Outputs = append(cell.Outputs, out)
		}
		delete(o, "language")
		if err := setCellMetadata(&base, meta); err != nil {
			return nil, err
		}
		base.Extra = o.rest()
		cell.CellBase = base
		return cell, nil

	case "heading":
		var level int
		if _, err := o.take("level", &level); err != nil {
			return nil, fmt.Errorf("level: %w", err)
		}
		if level < 1 {
			level = 1
		}
		var src Source
		if _, err := o.take("source", &src); err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		text := strings.Join(strings.Fields(src.String()), " ")
		base.Source = SplitLines(strings.Repeat("#", level) + " " + text)
		if err := setCellMetadata(&base, meta); err != nil {
			return nil, err
		}
		base.Extra = o.rest()
		return &MarkdownCell{CellBase: base}, nil

	case "markdown", "raw":
		if _, err := o.take("source", &base.Source); err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		if err := setCellMetadata(&base, meta); err != nil {
			return nil, err
		}
		base.Extra = o.rest()
		if kind == "raw" {
			return &RawCell{CellBase: base}, nil
		}
		return &MarkdownCell{CellBase: base}, nil

	default:
		return nil, fmt.Errorf("unknown v3 cell_type %q", kind)
	}
}

func setCellMetadata(base *CellBase, meta object) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, &base.Metadata)
}

func upgradeV3Output(data []byte) (json.RawMessage, error) {
	o, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	var kind string
	if _, err := o.take("output_type", &kind); err != nil {
		return nil, err
	}

	switch kind {
	case "pyout", "execute_result":
		kind = "execute_result"
		if raw, ok := o["prompt_number"]; ok {
			o["execution_count"] = raw
			delete(o, "prompt_number")
		} else if _, ok := o["execution_count"]; !ok {
			o["execution_count"] = json.RawMessage("null")
		}
		moveMimeData(o)
	case "display_data":
		moveMimeData(o)
	case "pyerr", "error":
		kind = "error"
	case "stream":
		name := json.RawMessage(`"stdout"`)
		if raw, ok := o["stream"]; ok {
			name = raw
			delete(o, "stream")
		}
		o["name"] = name
	}
	o["output_type"] = mustJSON(kind)
	return encodeJSON(o)
}

func moveMimeData(o object) {
	data := object{}
	for short, mime := range v3MimeTypes {
		if raw, ok := o[short]; ok {
			data[mime] = raw
			delete(o, short)
		}
	}
	o["data"] = mustJSON(data)
	if _, ok := o["metadata"]; !ok {
		o["metadata"] = json.RawMessage("{}")
	}
}

func mustJSON(v any) json.RawMessage {
	raw, err := encodeJSON(v)
	if err != nil {
		panic(err)
	}
	return raw
}
