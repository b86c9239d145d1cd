package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/juv/internal"
	"github.com/starford/juv/internal/uv"
	pkgconfig "github.com/starford/juv/pkg/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newApp(cmd *cli.Command) (*internal.App, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	switch {
	case cmd.Bool("verbose"):
		cfg.App.LogLevel = slog.LevelDebug
	case cmd.Bool("quiet"):
		cfg.App.LogLevel = slog.LevelError
	}
	if p := cmd.String("uv"); p != "" {
		cfg.UV.Path = p
	}

	app, err := internal.New(
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(app.Logger())
	return app, nil
}

func requireArgs(cmd *cli.Command, n int) error {
	if cmd.NArg() < n {
		return fmt.Errorf("%s: expected %s", cmd.Name, cmd.ArgsUsage)
	}
	return nil
}

func catCommand() *cli.Command {
	return &cli.Command{
		Name:      "cat",
		Usage:     "Print the contents of a notebook",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "script", Usage: "Render as a Python script instead of Markdown"},
			&cli.StringFlag{Name: "pager", Usage: "Pipe the output into this pager", Sources: cli.EnvVars("JUV_PAGER")},
			&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "Render again whenever the file changes"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			return app.Cat(ctx, internal.CatOptions{
				Path:   cmd.Args().First(),
				Script: cmd.Bool("script"),
				Pager:  cmd.String("pager"),
				Watch:  cmd.Bool("watch"),
			})
		},
	}
}

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Summarize a notebook and its inline metadata",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print JSON"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			return app.Info(ctx, cmd.Args().First(), cmd.Bool("json"))
		},
	}
}

func initCommand() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Create a new notebook with inline script metadata",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "python", Aliases: []string{"p"}, Usage: "Python version for requires-python"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			return app.Init(ctx, cmd.Args().First(), cmd.String("python"))
		},
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add dependencies to a notebook",
		ArgsUsage: "FILE [PACKAGE...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "requirements", Aliases: []string{"r"}, Usage: "Add all packages listed in a requirements file"},
			&cli.StringSliceFlag{Name: "extra", Usage: "Extras to enable for the dependency"},
			&cli.StringFlag{Name: "tag", Usage: "Git tag to use for a Git dependency"},
			&cli.StringFlag{Name: "branch", Usage: "Git branch to use for a Git dependency"},
			&cli.StringFlag{Name: "rev", Usage: "Git commit to use for a Git dependency"},
			&cli.BoolFlag{Name: "editable", Usage: "Add the requirements as editable"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}
			args := cmd.Args().Slice()
			if len(args) < 2 && cmd.String("requirements") == "" {
				return fmt.Errorf("add: no packages or requirements file given")
			}
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			return app.Add(ctx, args[0], uv.AddOptions{
				Packages:     args[1:],
				Requirements: cmd.String("requirements"),
				Extras:       cmd.StringSlice("extra"),
				Tag:          cmd.String("tag"),
				Branch:       cmd.String("branch"),
				Rev:          cmd.String("rev"),
				Editable:     cmd.Bool("editable"),
			})
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Launch a notebook in Jupyter",
		ArgsUsage: "FILE [-- JUPYTER_ARGS...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "with", Usage: "Run with the given packages installed"},
			&cli.StringFlag{Name: "python", Aliases: []string{"p"}, Usage: "Python interpreter to use"},
			&cli.StringFlag{Name: "jupyter", Usage: "Jupyter front end: lab, notebook or nbclassic, optionally @version", Sources: cli.EnvVars("JUV_JUPYTER")},
			&cli.StringFlag{Name: "mode", Usage: "managed, replace or dry", Sources: cli.EnvVars("JUV_RUN_MODE")},
			&cli.BoolFlag{Name: "no-project", Usage: "Do not discover a surrounding uv project"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			return app.Run(ctx, internal.RunOptions{
				Path:      cmd.Args().First(),
				Jupyter:   cmd.String("jupyter"),
				Mode:      cmd.String("mode"),
				Python:    cmd.String("python"),
				With:      cmd.StringSlice("with"),
				NoProject: cmd.Bool("no-project"),
				Args:      cmd.Args().Tail(),
			})
		},
	}
}

func execCommand() *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Usage:     "Execute a notebook as a script; the global --quiet also quiets uv",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "python", Aliases: []string{"p"}, Usage: "Python interpreter to use"},
			&cli.StringSliceFlag{Name: "with", Usage: "Run with the given packages installed"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			return app.Exec(ctx, cmd.Args().First(), uv.ExecOptions{
				Python: cmd.String("python"),
				With:   cmd.StringSlice("with"),
				Quiet:  cmd.Bool("quiet"),
			})
		},
	}
}

func clearCommand() *cli.Command {
	return &cli.Command{
		Name:      "clear",
		Usage:     "Clear notebook cell outputs",
		ArgsUsage: "TARGET...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "check", Usage: "Only report notebooks that are not cleared"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			return app.Clear(ctx, cmd.Args().Slice(), cmd.Bool("check"))
		},
	}
}

func editCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Open a notebook's Markdown view in an editor",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "editor", Usage: "Editor command", Sources: cli.EnvVars("EDITOR")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			return app.Edit(ctx, cmd.Args().First(), cmd.String("editor"))
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output-format", Value: "text", Usage: "text or json"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			return app.Version(cmd.String("output-format"))
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve notebook tools over MCP on stdio",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Value: ".", Usage: "Directory the tools may access"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			return app.ServeMCP(ctx, cmd.String("root"))
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "juv",
		Usage: "Create, manage, and run reproducible Jupyter notebooks with uv",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (optional)",
				Sources: cli.EnvVars("JUV_CONFIG_FILE"),
			},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log debug output"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Only log errors"},
			&cli.StringFlag{Name: "uv", Usage: "Path to the uv executable", Sources: cli.EnvVars("JUV_UV")},
		},
		Commands: []*cli.Command{
			initCommand(),
			addCommand(),
			runCommand(),
			execCommand(),
			catCommand(),
			infoCommand(),
			editCommand(),
			clearCommand(),
			versionCommand(),
			mcpCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
