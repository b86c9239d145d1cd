package internal

import (
	"errors"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/juv/internal/runtime"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Run modes.
const (
	// RunModeManaged launches the front end and reports the resolved version.
	RunModeManaged = "managed"
	// RunModeReplace launches the front end with plain stdio passthrough.
	RunModeReplace = "replace"
	// RunModeDry prints the uv command instead of running it.
	RunModeDry = "dry"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Runtime RuntimeConfig     `yaml:"runtime"`
	UV      UVConfig          `yaml:"uv"`
	Tools   ToolsConfig       `yaml:"tools"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Runtime.Validate(); err != nil {
		return err
	}
	return c.UV.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatText
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatText, LogFormatJSON)),
	)
}

// RuntimeConfig holds the defaults for `juv run`.
type RuntimeConfig struct {
	// Jupyter is a runtime specifier such as "lab" or "notebook@6".
	Jupyter   string   `yaml:"jupyter"`
	Mode      string   `yaml:"mode"`
	Python    string   `yaml:"python"`
	NoProject bool     `yaml:"no_project"`
	With      []string `yaml:"with"`
}

// Validate validates the runtime configuration.
func (c *RuntimeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Jupyter, validation.Required, validation.By(validRuntime)),
		validation.Field(&c.Mode, validation.Required, validation.In(RunModeManaged, RunModeReplace, RunModeDry)),
	)
}

func validRuntime(value any) error {
	s, _ := value.(string)
	if _, err := runtime.Parse(s); err != nil {
		return errors.New("must be notebook, lab or nbclassic with an optional @version")
	}
	return nil
}

// UVConfig locates the uv executable.
type UVConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the uv configuration.
func (c *UVConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ToolsConfig names the pager and editor. Both are optional.
type ToolsConfig struct {
	Pager  string `yaml:"pager"`
	Editor string `yaml:"editor"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatText,
		},
		Runtime: RuntimeConfig{
			Jupyter: runtime.Default,
			Mode:    RunModeReplace,
		},
		UV: UVConfig{
			Path: "uv",
		},
	}
}
