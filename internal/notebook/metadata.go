package notebook

import "encoding/json"

// Metadata is the notebook-level metadata record. Keys this package does not
// model are kept in Additional and written back verbatim.
type Metadata struct {
	Kernelspec   *Kernelspec
	LanguageInfo *LanguageInfo
	Authors      []Author
	Additional   map[string]json.RawMessage
}

// Kernelspec names the kernel the notebook was written for.
type Kernelspec struct {
	Name        string
	DisplayName string
	Language    string
	Extra       map[string]json.RawMessage
}

// LanguageInfo describes the kernel language.
type LanguageInfo struct {
	Name          string
	Version       string
	FileExtension string
	MimeType      string
	Extra         map[string]json.RawMessage
}

// Author is one entry of the authors list.
type Author struct {
	Name  string
	Extra map[string]json.RawMessage
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	o, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out Metadata
	if _, err := o.take("kernelspec", &out.Kernelspec); err != nil {
		return err
	}
	if _, err := o.take("language_info", &out.LanguageInfo); err != nil {
		return err
	}
	if _, err := o.take("authors", &out.Authors); err != nil {
		return err
	}
	out.Additional = o.rest()
	*m = out
	return nil
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	known := map[string]any{}
	if m.Kernelspec != nil {
		known["kernelspec"] = m.Kernelspec
	}
	if m.LanguageInfo != nil {
		known["language_info"] = m.LanguageInfo
	}
	if m.Authors != nil {
		known["authors"] = m.Authors
	}
	return encodeJSON(fields(m.Additional, known))
}

func (k *Kernelspec) UnmarshalJSON(data []byte) error {
	o, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out Kernelspec
	for key, dst := range map[string]*string{
		"name":         &out.Name,
		"display_name": &out.DisplayName,
		"language":     &out.Language,
	} {
		if _, err := o.take(key, dst); err != nil {
			return err
		}
	}
	out.Extra = o.rest()
	*k = out
	return nil
}

func (k Kernelspec) MarshalJSON() ([]byte, error) {
	known := map[string]any{
		"name":         k.Name,
		"display_name": k.DisplayName,
	}
	if k.Language != "" {
		known["language"] = k.Language
	}
	return encodeJSON(fields(k.Extra, known))
}

func (l *LanguageInfo) UnmarshalJSON(data []byte) error {
	o, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out LanguageInfo
	for key, dst := range map[string]*string{
		"name":           &out.Name,
		"version":        &out.Version,
		"file_extension": &out.FileExtension,
		"mimetype":       &out.MimeType,
	} {
		if _, err := o.take(key, dst); err != nil {
			return err
		}
	}
	out.Extra = o.rest()
	*l = out
	return nil
}

func (l LanguageInfo) MarshalJSON() ([]byte, error) {
	known := map[string]any{"name": l.Name}
	if l.Version != "" {
		known["version"] = l.Version
	}
	if l.FileExtension != "" {
		known["file_extension"] = l.FileExtension
	}
	if l.MimeType != "" {
		known["mimetype"] = l.MimeType
	}
	return encodeJSON(fields(l.Extra, known))
}

func (a *Author) UnmarshalJSON(data []byte) error {
	o, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out Author
	if _, err := o.take("name", &out.Name); err != nil {
		return err
	}
	out.Extra = o.rest()
	*a = out
	return nil
}

func (a Author) MarshalJSON() ([]byte, error) {
	return encodeJSON(fields(a.Extra, map[string]any{"name": a.Name}))
}

// CellMetadata is the per-cell metadata record.
type CellMetadata struct {
	Jupyter    *JupyterCellMetadata
	Additional map[string]json.RawMessage
}

// JupyterCellMetadata holds the visibility flags under metadata.jupyter.
type JupyterCellMetadata struct {
	SourceHidden  *bool
	OutputsHidden *bool
	Extra         map[string]json.RawMessage
}

// SourceHidden reports whether the cell source is marked hidden.
func (m CellMetadata) SourceHidden() bool {
	return m.Jupyter != nil && m.Jupyter.SourceHidden != nil && *m.Jupyter.SourceHidden
}

func (m *CellMetadata) UnmarshalJSON(data []byte) error {
	o, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out CellMetadata
	if _, err := o.take("jupyter", &out.Jupyter); err != nil {
		return err
	}
	out.Additional = o.rest()
	*m = out
	return nil
}

func (m CellMetadata) MarshalJSON() ([]byte, error) {
	known := map[string]any{}
	if m.Jupyter != nil {
		known["jupyter"] = m.Jupyter
	}
	return encodeJSON(fields(m.Additional, known))
}

func (j *JupyterCellMetadata) UnmarshalJSON(data []byte) error {
	o, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out JupyterCellMetadata
	if _, err := o.take("source_hidden", &out.SourceHidden); err != nil {
		return err
	}
	if _, err := o.take("outputs_hidden", &out.OutputsHidden); err != nil {
		return err
	}
	out.Extra = o.rest()
	*j = out
	return nil
}

func (j JupyterCellMetadata) MarshalJSON() ([]byte, error) {
	known := map[string]any{}
	if j.SourceHidden != nil {
		known["source_hidden"] = *j.SourceHidden
	}
	if j.OutputsHidden != nil {
		known["outputs_hidden"] = *j.OutputsHidden
	}
	return encodeJSON(fields(j.Extra, known))
}
