package notebook

import (
	"bytes"
	"encoding/json"
)

// object is a decoded JSON object whose values are kept raw until a known
// key is taken out of it. Whatever remains is carried through untouched.
type object map[string]json.RawMessage

func decodeObject(data []byte) (object, error) {
	var o object
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, err
	}
	if o == nil {
		o = object{}
	}
	return o, nil
}

// take decodes key into dst and removes it. It reports whether the key was
// present; a JSON null counts as absent.
func (o object) take(key string, dst any) (bool, error) {
	raw, ok := o[key]
	if !ok {
		return false, nil
	}
	delete(o, key)
	if isNull(raw) {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

// rest returns the unrecognised keys, or nil when there are none.
func (o object) rest() map[string]json.RawMessage {
	if len(o) == 0 {
		return nil
	}
	return o
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// fields merges known fields over the preserved extra keys.
func fields(extra map[string]json.RawMessage, known map[string]any) map[string]any {
	out := make(map[string]any, len(extra)+len(known))
	for k, v := range extra {
		out[k] = v
	}
	for k, v := range known {
		out[k] = v
	}
	return out
}

// encodeJSON marshals v without HTML escaping so that markup inside outputs
// and sources is written back the way Jupyter writes it.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
