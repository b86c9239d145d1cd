// Package storage reads and writes notebook files.
package storage

import (
	"path/filepath"
	"time"
)

// NotebookExt is the extension of notebook files.
const NotebookExt = ".ipynb"

// Entry describes one notebook file.
type Entry struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider is the interface for notebook file operations.
type Provider interface {
	// List returns every notebook directly inside dir.
	List(dir string) ([]Entry, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path with content.
	Write(path string, content []byte) error
	// Exists reports whether path exists.
	Exists(path string) (bool, error)
	// IsDir reports whether path is an existing directory.
	IsDir(path string) (bool, error)
}

// IsNotebook reports whether path has the notebook extension.
func IsNotebook(path string) bool {
	return filepath.Ext(path) == NotebookExt
}
