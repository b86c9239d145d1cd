// Package internal provides application initialization and the juv
// command implementations.
package internal

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/juv/internal/nbservice"
	"github.com/starford/juv/internal/storage"
	"github.com/starford/juv/internal/uv"
)

// App runs juv commands against the local file system.
type App struct {
	cfg     *Config
	version string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	logger  *slog.Logger
	runner  uv.Runner
	svc     *nbservice.Service
}

// New wires an App from the given options. A configuration is required.
func New(opts ...Option) (*App, error) {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	if app.version == "" {
		app.version = "dev"
	}

	logger := app.logger
	if logger == nil {
		logger = NewLogger(app.stderr, cfg.App)
	}

	runner := app.runner
	if runner == nil {
		runner = uv.NewExecRunner(cfg.UV.Path, logger)
	}

	// Command-line paths are used as given.
	store, err := storage.NewFS("")
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	logger.Debug("Configuration loaded",
		slog.String("log_level", cfg.App.LogLevel.String()),
		slog.String("uv_path", cfg.UV.Path),
		slog.String("jupyter", cfg.Runtime.Jupyter),
		slog.String("run_mode", cfg.Runtime.Mode))

	return &App{
		cfg:     cfg,
		version: app.version,
		stdin:   app.stdin,
		stdout:  app.stdout,
		stderr:  app.stderr,
		logger:  logger,
		runner:  runner,
		svc:     nbservice.New(store, runner, logger),
	}, nil
}

// NewLogger builds the structured logger described by cfg. Logs always go
// to w (stderr) so stdout stays clean for rendered notebooks.
func NewLogger(w io.Writer, cfg ApplicationConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }
