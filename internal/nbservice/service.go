// Package nbservice coordinates storage, the notebook model and uv for each
// juv command.
package nbservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/juv/internal/apperr"
	"github.com/starford/juv/internal/checksum"
	"github.com/starford/juv/internal/convert"
	"github.com/starford/juv/internal/metadata"
	"github.com/starford/juv/internal/notebook"
	"github.com/starford/juv/internal/runtime"
	"github.com/starford/juv/internal/storage"
	"github.com/starford/juv/internal/uv"
)

// Service runs notebook operations against a storage.Provider.
type Service struct {
	store  storage.Provider
	runner uv.Runner
	logger *slog.Logger
}

// New creates a notebook service.
func New(store storage.Provider, runner uv.Runner, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, runner: runner, logger: logger}
}

// Load reads and parses the notebook at path.
func (s *Service) Load(_ context.Context, path string) (*notebook.Notebook, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, apperr.ErrNotFound)
		}
		return nil, err
	}
	nb, err := notebook.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

// Save serializes nb and writes it to path.
func (s *Service) Save(_ context.Context, path string, nb *notebook.Notebook) error {
	data, err := nb.Save()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return s.store.Write(path, data)
}

// Render returns the text projection of the notebook at path.
func (s *Service) Render(ctx context.Context, path string, format convert.Format) (string, error) {
	nb, err := s.Load(ctx, path)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := convert.Render(&buf, nb, format); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return buf.String(), nil
}

// Info summarizes a notebook.
type Info struct {
	Path      string        `json:"path"`
	Format    string        `json:"nbformat"`
	Cells     int           `json:"cells"`
	CodeCells int           `json:"code_cells"`
	Cleared   bool          `json:"cleared"`
	Metadata  *MetadataInfo `json:"metadata,omitempty"`
}

// MetadataInfo describes the notebook's inline metadata block.
type MetadataInfo struct {
	Type           string   `json:"type"`
	Cell           int      `json:"cell"`
	RequiresPython string   `json:"requires_python,omitempty"`
	Dependencies   []string `json:"dependencies"`
}

// Info loads path and reports its shape and metadata block.
func (s *Service) Info(ctx context.Context, path string) (*Info, error) {
	nb, err := s.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	info := &Info{
		Path:      path,
		Format:    fmt.Sprintf("%d.%d", nb.Format, nb.FormatMinor),
		Cells:     len(nb.Cells),
		CodeCells: len(nb.CodeCells()),
		Cleared:   nb.IsCleared(),
	}
	m, ok := metadata.Find(nb)
	if !ok {
		return info, nil
	}
	info.Metadata = &MetadataInfo{
		Type:         m.Block.Type,
		Cell:         m.Index,
		Dependencies: []string{},
	}
	if m.Block.Type == metadata.ScriptType {
		script, err := m.Block.Script()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		info.Metadata.RequiresPython = script.RequiresPython
		if script.Dependencies != nil {
			info.Metadata.Dependencies = script.Dependencies
		}
	}
	return info, nil
}

// Collect expands targets into notebook paths. Directories contribute the
// notebooks directly inside them; anything else that is not an existing
// .ipynb file is returned in skipped.
func (s *Service) Collect(_ context.Context, targets []string) (paths, skipped []string, err error) {
	for _, target := range targets {
		dir, err := s.store.IsDir(target)
		if err != nil {
			return nil, nil, err
		}
		if dir {
			entries, err := s.store.List(target)
			if err != nil {
				return nil, nil, err
			}
			for _, e := range entries {
				paths = append(paths, e.Path)
			}
			continue
		}
		ok, err := s.store.Exists(target)
		if err != nil {
			return nil, nil, err
		}
		if ok && storage.IsNotebook(target) {
			paths = append(paths, target)
			continue
		}
		skipped = append(skipped, target)
	}
	return paths, skipped, nil
}

// Clear removes outputs and execution counts from the notebook at path.
// The file is rewritten only when its serialized form changes.
func (s *Service) Clear(_ context.Context, path string) (bool, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("%s: %w", path, apperr.ErrNotFound)
		}
		return false, err
	}
	nb, err := notebook.Load(data)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	nb.ClearOutputs()
	out, err := nb.Save()
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if !checksum.Changed(data, out) {
		s.logger.Debug("notebook unchanged", slog.String("path", path))
		return false, nil
	}
	if err := s.store.Write(path, out); err != nil {
		return false, err
	}
	return true, nil
}

// DefaultName returns the first free Untitled.ipynb, Untitled1.ipynb, ...
// Untitled99.ipynb inside dir.
func (s *Service) DefaultName(dir string) (string, error) {
	for i := 0; i < 100; i++ {
		name := "Untitled" + storage.NotebookExt
		if i > 0 {
			name = fmt.Sprintf("Untitled%d%s", i, storage.NotebookExt)
		}
		p := filepath.Join(dir, name)
		ok, err := s.store.Exists(p)
		if err != nil {
			return "", err
		}
		if !ok {
			return p, nil
		}
	}
	return "", fmt.Errorf("no free UntitledX%s in %s: %w", storage.NotebookExt, dir, apperr.ErrAlreadyExists)
}

// InitOptions configures Init.
type InitOptions struct {
	// Path of the new notebook; empty picks DefaultName in Dir.
	Path   string
	Dir    string
	Python string
}

// Init creates a notebook whose first, hidden cell holds a metadata block
// generated by `uv init --script`, followed by an empty code cell. It
// returns the path written.
func (s *Service) Init(ctx context.Context, opts InitOptions) (string, error) {
	path := opts.Path
	if path == "" {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		p, err := s.DefaultName(dir)
		if err != nil {
			return "", err
		}
		path = p
	}
	if !storage.IsNotebook(path) {
		return "", fmt.Errorf("%s: %w", path, apperr.ErrNotNotebook)
	}
	exists, err := s.store.Exists(path)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%s: %w", path, apperr.ErrAlreadyExists)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create notebook dir: %w", err)
	}
	header, err := s.withScratch(dir, "", func(scratch string) error {
		return s.runner.Run(ctx, uv.Command{
			Args: uv.InitScriptArgs(scratch, opts.Python),
			Dir:  dir,
		})
	})
	if err != nil {
		return "", err
	}

	nb := notebook.New()
	nb.AppendCode(header, true)
	nb.AppendCode("", false)
	if err := s.Save(ctx, path, nb); err != nil {
		return "", err
	}
	s.logger.Debug("notebook initialized", slog.String("path", path))
	return path, nil
}

// Add runs `uv add --script` against the notebook's metadata cell and
// splices the rewritten block back into that cell. Code around the block
// is left untouched.
func (s *Service) Add(ctx context.Context, path string, opts uv.AddOptions) error {
	nb, err := s.Load(ctx, path)
	if err != nil {
		return err
	}
	m, ok := metadata.Find(nb)
	if !ok {
		return fmt.Errorf("%s: %w", path, apperr.ErrNoMetadata)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	source := m.Cell.Source.String()
	updated, err := s.withScratch(dir, strings.TrimSpace(source), func(scratch string) error {
		return s.runner.Run(ctx, uv.Command{
			Args: uv.AddScriptArgs(scratch, opts),
			Dir:  dir,
		})
	})
	if err != nil {
		return err
	}

	if block, ok := metadata.Extract(updated); ok {
		m.Cell.Source = notebook.SplitLines(metadata.Splice(source, m.Block, block.Text))
	} else {
		s.logger.Warn("uv output has no metadata block, replacing cell", slog.String("path", path))
		m.Cell.Source = notebook.SplitLines(strings.TrimSpace(updated))
	}
	return s.Save(ctx, path, nb)
}

// withScratch writes content to a temporary .py file in dir, calls fn
// with its path and returns the file's contents afterwards.
func (s *Service) withScratch(dir, content string, fn func(scratch string) error) (string, error) {
	f, err := os.CreateTemp(dir, ".juv-*.py")
	if err != nil {
		return "", fmt.Errorf("create scratch script: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return "", fmt.Errorf("write scratch script: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close scratch script: %w", err)
	}
	if err := fn(name); err != nil {
		return "", err
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read scratch script: %w", err)
	}
	return string(data), nil
}

// RunScript builds the bootstrap program launching path in rt. The first
// metadata block found is copied to its top.
func (s *Service) RunScript(ctx context.Context, path string, rt runtime.Runtime, managed bool, args []string) (string, error) {
	nb, err := s.Load(ctx, path)
	if err != nil {
		return "", err
	}
	var meta string
	if m, ok := metadata.Find(nb); ok {
		meta = m.Block.Text
	}
	return rt.PrepareRunScript(path, meta, managed, args), nil
}

// RunRequest describes launching a notebook in a front end.
type RunRequest struct {
	Path    string
	Runtime runtime.Runtime
	Managed bool
	Args    []string
	Options uv.RunOptions
}

// RunCommand returns the uv command that launches req.Path, with the
// bootstrap script on stdin. The caller attaches output streams and runs it.
func (s *Service) RunCommand(ctx context.Context, req RunRequest) (uv.Command, error) {
	script, err := s.RunScript(ctx, req.Path, req.Runtime, req.Managed, req.Args)
	if err != nil {
		return uv.Command{}, err
	}
	return uv.Command{
		Args:  uv.RunArgs(req.Runtime.DependencySpecifier(), req.Options),
		Stdin: strings.NewReader(script),
	}, nil
}

// ExecCommand returns the uv command that executes the script projection
// of path from the notebook's directory.
func (s *Service) ExecCommand(ctx context.Context, path string, opts uv.ExecOptions) (uv.Command, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return uv.Command{}, err
	}
	script, err := s.Render(ctx, path, convert.FormatScript)
	if err != nil {
		return uv.Command{}, err
	}
	return uv.Command{
		Args:  uv.ExecArgs(opts),
		Dir:   filepath.Dir(abs),
		Stdin: strings.NewReader(script),
	}, nil
}
