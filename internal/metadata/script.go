package metadata

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// ScriptType is the block type carrying dependency declarations.
const ScriptType = "script"

// Script is the decoded body of a "script" block.
type Script struct {
	RequiresPython string         `toml:"requires-python"`
	Dependencies   []string       `toml:"dependencies"`
	Tool           map[string]any `toml:"tool"`
}

// Script decodes the block body as TOML.
func (b Block) Script() (*Script, error) {
	if b.Type != ScriptType {
		return nil, fmt.Errorf("metadata: block type %q is not %q", b.Type, ScriptType)
	}
	var s Script
	if _, err := toml.Decode(b.Content(), &s); err != nil {
		return nil, fmt.Errorf("metadata: decode script block: %w", err)
	}
	return &s, nil
}
