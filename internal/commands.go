package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/juv/internal/convert"
	"github.com/starford/juv/internal/mcpserver"
	"github.com/starford/juv/internal/nbservice"
	"github.com/starford/juv/internal/runtime"
	"github.com/starford/juv/internal/storage"
	"github.com/starford/juv/internal/uv"
	"github.com/starford/juv/internal/watch"
)

// ErrNotCleared is returned by `clear --check` when any notebook still
// carries outputs.
var ErrNotCleared = errors.New("some notebooks are not cleared, use `juv clear` to fix")

// CatOptions configures Cat.
type CatOptions struct {
	Path   string
	Script bool
	// Pager, when set, receives the rendered text on stdin.
	Pager string
	Watch bool
}

func (o CatOptions) format() convert.Format {
	if o.Script {
		return convert.FormatScript
	}
	return convert.FormatMarkdown
}

// Cat renders a notebook to stdout or a pager. With Watch it re-renders
// after every change until interrupted.
func (a *App) Cat(ctx context.Context, opts CatOptions) error {
	if err := a.cat(ctx, opts); err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, cancel := context.WithCancel(gCtx)
	defer cancel()

	g.Go(func() error {
		return watch.File(watchCtx, opts.Path, 0, a.logger, func() {
			if err := a.cat(watchCtx, opts); err != nil {
				a.logger.Warn("re-render failed", slog.String("path", opts.Path), slog.String("error", err.Error()))
			}
		})
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			a.logger.Debug("Received shutdown signal", slog.String("signal", sig.String()))
		case <-watchCtx.Done():
		}
		cancel()
		return nil
	})

	return g.Wait()
}

func (a *App) cat(ctx context.Context, opts CatOptions) error {
	format := opts.format()
	text, err := a.svc.Render(ctx, opts.Path, format)
	if err != nil {
		return err
	}
	if opts.Pager == "" {
		_, err := fmt.Fprintln(a.stdout, text)
		return err
	}
	return a.page(ctx, opts.Pager, opts.Path, format, text)
}

// Info prints a notebook summary, as JSON when asJSON is set.
func (a *App) Info(ctx context.Context, path string, asJSON bool) error {
	info, err := a.svc.Info(ctx, path)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(a.stdout, "path:      %s\n", info.Path)
	fmt.Fprintf(a.stdout, "nbformat:  %s\n", info.Format)
	fmt.Fprintf(a.stdout, "cells:     %d (%d code)\n", info.Cells, info.CodeCells)
	fmt.Fprintf(a.stdout, "cleared:   %t\n", info.Cleared)
	if info.Metadata == nil {
		_, err := fmt.Fprintln(a.stdout, "metadata:  none")
		return err
	}
	m := info.Metadata
	fmt.Fprintf(a.stdout, "metadata:  %s block in cell %d\n", m.Type, m.Cell)
	if m.RequiresPython != "" {
		fmt.Fprintf(a.stdout, "python:    %s\n", m.RequiresPython)
	}
	_, err = fmt.Fprintf(a.stdout, "deps:      %s\n", strings.Join(m.Dependencies, ", "))
	return err
}

// Init creates a new notebook; an empty path picks the first free
// UntitledX.ipynb in the working directory.
func (a *App) Init(ctx context.Context, path, python string) error {
	if python == "" {
		python = a.cfg.Runtime.Python
	}
	created, err := a.svc.Init(ctx, nbservice.InitOptions{Path: path, Python: python})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "Initialized notebook at `%s`\n", filepath.Base(created))
	return err
}

// Add adds dependencies to the notebook's inline metadata.
func (a *App) Add(ctx context.Context, path string, opts uv.AddOptions) error {
	if err := a.svc.Add(ctx, path, opts); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.stderr, "Updated `%s`\n", path)
	return err
}

// RunOptions configures Run. Empty fields fall back to the configuration.
type RunOptions struct {
	Path      string
	Jupyter   string
	Mode      string
	Python    string
	With      []string
	NoProject bool
	Args      []string
}

// Run launches a notebook in a Jupyter front end through uv.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	spec := opts.Jupyter
	if spec == "" {
		spec = a.cfg.Runtime.Jupyter
	}
	rt, err := runtime.Parse(spec)
	if err != nil {
		return err
	}
	mode := opts.Mode
	if mode == "" {
		mode = a.cfg.Runtime.Mode
	}
	python := opts.Python
	if python == "" {
		python = a.cfg.Runtime.Python
	}

	cmd, err := a.svc.RunCommand(ctx, nbservice.RunRequest{
		Path:    opts.Path,
		Runtime: rt,
		Managed: mode == RunModeManaged,
		Args:    opts.Args,
		Options: uv.RunOptions{
			With:      append(append([]string(nil), a.cfg.Runtime.With...), opts.With...),
			Python:    python,
			NoProject: opts.NoProject || a.cfg.Runtime.NoProject,
		},
	})
	if err != nil {
		return err
	}

	switch mode {
	case RunModeDry:
		_, err := fmt.Fprintln(a.stdout, cmd.String())
		return err
	case RunModeManaged:
		return a.runManaged(ctx, cmd)
	case RunModeReplace:
		cmd.Stdout = a.stdout
		cmd.Stderr = a.stderr
		return a.runner.Run(ctx, cmd)
	default:
		return fmt.Errorf("unknown run mode %q", mode)
	}
}

// runManaged passes uv's stderr through while picking out the version
// marker the bootstrap script prints.
func (a *App) runManaged(ctx context.Context, cmd uv.Command) error {
	filter := &uv.LineFilter{
		Dst: a.stderr,
		Fn: func(line string) bool {
			pkg, version, ok := runtime.ParseManagedMarker(line)
			if ok {
				a.logger.Info("Jupyter started", slog.String("package", pkg), slog.String("version", version))
			}
			return ok
		},
	}
	cmd.Stdout = a.stdout
	cmd.Stderr = filter
	runErr := a.runner.Run(ctx, cmd)
	if err := filter.Flush(); err != nil && runErr == nil {
		return err
	}
	return runErr
}

// Exec runs a notebook as a Python script.
func (a *App) Exec(ctx context.Context, path string, opts uv.ExecOptions) error {
	if opts.Python == "" {
		opts.Python = a.cfg.Runtime.Python
	}
	cmd, err := a.svc.ExecCommand(ctx, path, opts)
	if err != nil {
		return err
	}
	cmd.Stdout = a.stdout
	cmd.Stderr = a.stderr
	return a.runner.Run(ctx, cmd)
}

// Clear removes outputs from every notebook named by targets. With check
// it only reports notebooks that are not cleared and fails with
// ErrNotCleared if there are any.
func (a *App) Clear(ctx context.Context, targets []string, check bool) error {
	paths, skipped, err := a.svc.Collect(ctx, targets)
	if err != nil {
		return err
	}
	for _, p := range skipped {
		a.logger.Warn("Skipping, not a notebook", slog.String("path", p))
	}

	if check {
		dirty, err := a.svc.Check(ctx, paths)
		if err != nil {
			return err
		}
		for _, p := range dirty {
			fmt.Fprintln(a.stderr, p)
		}
		if len(dirty) > 0 {
			return ErrNotCleared
		}
		_, err = fmt.Fprintln(a.stderr, "All notebooks are cleared")
		return err
	}

	for _, p := range paths {
		if _, err := a.svc.Clear(ctx, p); err != nil {
			return err
		}
		fmt.Fprintf(a.stderr, "Cleared output from `%s`\n", p)
	}
	if len(paths) > 1 {
		fmt.Fprintf(a.stderr, "Cleared output from %d notebooks\n", len(paths))
	}
	return nil
}

// Edit opens the Markdown projection of a notebook in an editor and prints
// the edited text. The notebook itself is not modified.
func (a *App) Edit(ctx context.Context, path, editor string) error {
	if editor == "" {
		editor = a.cfg.Tools.Editor
	}
	if editor == "" {
		return errors.New("no editor specified, set EDITOR or use --editor")
	}
	text, err := a.svc.Render(ctx, path, convert.FormatMarkdown)
	if err != nil {
		return err
	}
	edited, err := a.edit(ctx, editor, text)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, edited)
	return err
}

// VersionInfo is printed by `juv version`.
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Version prints version information as text or json.
func (a *App) Version(format string) error {
	info := VersionInfo{
		Version:   a.version,
		GoVersion: goruntime.Version(),
		Platform:  goruntime.GOOS + "/" + goruntime.GOARCH,
	}
	switch format {
	case "", "text":
		_, err := fmt.Fprintf(a.stdout, "juv %s (%s %s)\n", info.Version, info.GoVersion, info.Platform)
		return err
	case "json":
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// ServeMCP serves the notebook tools over stdio, confined to root.
func (a *App) ServeMCP(_ context.Context, root string) error {
	if root == "" {
		root = "."
	}
	store, err := storage.NewFS(root)
	if err != nil {
		return err
	}
	a.logger.Info("MCP server starting", slog.String("root", store.Root()))
	svc := nbservice.New(store, a.runner, a.logger)
	return mcpserver.New(svc, store, a.version).ServeStdio()
}
