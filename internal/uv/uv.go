// Package uv builds and runs uv command lines. uv resolves and installs
// every dependency; juv only hands it scripts and flags.
package uv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/starford/juv/internal/apperr"
)

// Command is a single uv invocation.
type Command struct {
	// Args follow the uv executable, e.g. ["run", "-"].
	Args   []string
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	// Stderr receives uv's error stream. When nil it is captured and
	// reported in ExitError.
	Stderr io.Writer
}

// String renders the command line the way a user would type it.
func (c Command) String() string {
	return strings.TrimSpace("uv " + strings.Join(c.Args, " "))
}

// Runner executes uv commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExitError reports a uv process that exited non-zero. Failures are not
// retried.
type ExitError struct {
	Args   []string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("uv command failed with exit code %d", e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return apperr.ErrToolFailed
}

// ExecRunner runs the uv binary found at Path.
type ExecRunner struct {
	Path   string
	Logger *slog.Logger
}

// NewExecRunner returns a runner for the given uv binary; an empty path
// means "uv" looked up on PATH.
func NewExecRunner(path string, logger *slog.Logger) *ExecRunner {
	if path == "" {
		path = "uv"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRunner{Path: path, Logger: logger}
}

// Run starts the command and waits for it.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, r.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = cmd.Stdin
	c.Stdout = cmd.Stdout

	var stderr bytes.Buffer
	if cmd.Stderr != nil {
		c.Stderr = cmd.Stderr
	} else {
		c.Stderr = &stderr
	}

	r.Logger.Debug("uv: exec", slog.String("cmd", cmd.String()), slog.String("dir", cmd.Dir))

	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Args: cmd.Args, Code: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return fmt.Errorf("uv: start %s: %w", r.Path, err)
	}
	return nil
}
