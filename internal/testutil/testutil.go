// Package testutil provides shared test helpers for notebook directories and
// uv invocations.
package testutil

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/starford/juv/internal/storage"
	"github.com/starford/juv/internal/uv"
)

// TestStore creates a temporary notebook directory with an unconfined
// storage.Provider, matching how the CLI resolves paths.
func TestStore(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS("")
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteFile writes data to dir/name and returns the full path.
func WriteFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// Call is one recorded uv invocation.
type Call struct {
	Args  []string
	Dir   string
	Stdin string
}

// Runner is a uv.Runner that records calls instead of spawning processes.
// Handle, when set, runs after recording and its error is returned.
type Runner struct {
	Handle func(cmd uv.Command) error

	mu    sync.Mutex
	calls []Call
}

// Run implements uv.Runner.
func (r *Runner) Run(_ context.Context, cmd uv.Command) error {
	c := Call{Args: append([]string(nil), cmd.Args...), Dir: cmd.Dir}
	if cmd.Stdin != nil {
		data, err := io.ReadAll(cmd.Stdin)
		if err != nil {
			return err
		}
		c.Stdin = string(data)
		cmd.Stdin = strings.NewReader(c.Stdin)
	}
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()

	if r.Handle != nil {
		return r.Handle(cmd)
	}
	return nil
}

// Calls returns a copy of the recorded calls.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}
