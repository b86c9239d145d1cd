package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pkgconfig "github.com/starford/juv/pkg/config"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
}

func TestApplicationConfig_EmptyFormatDefaultsText(t *testing.T) {
	cfg := ApplicationConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty format should default to text: %v", err)
	}
	if cfg.LogFormat != LogFormatText {
		t.Errorf("format = %q, want %q", cfg.LogFormat, LogFormatText)
	}
}

func TestApplicationConfig_InvalidFormat(t *testing.T) {
	cfg := ApplicationConfig{LogFormat: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid log format should fail")
	}
}

func TestRuntimeConfig_Specifiers(t *testing.T) {
	for _, spec := range []string{"lab", "notebook@6", "nbclassic==1.1"} {
		cfg := RuntimeConfig{Jupyter: spec, Mode: RunModeDry}
		if err := cfg.Validate(); err != nil {
			t.Errorf("%q should pass: %v", spec, err)
		}
	}
	cfg := RuntimeConfig{Jupyter: "voila", Mode: RunModeDry}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("unknown runtime should fail")
	}
	if !strings.Contains(err.Error(), "Jupyter") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestRuntimeConfig_InvalidMode(t *testing.T) {
	cfg := RuntimeConfig{Jupyter: "lab", Mode: "background"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail")
	}
}

func TestUVConfig_PathRequired(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.UV.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch empty uv path")
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("JUV_TEST_UV", "/opt/bin/uv")
	path := filepath.Join(t.TempDir(), "juv.yaml")
	data := `app:
  log_level: debug
  log_format: json
runtime:
  jupyter: notebook@6
  mode: managed
  with: [polars]
uv:
  path: ${JUV_TEST_UV}
tools:
  pager: bat
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug || cfg.App.LogFormat != LogFormatJSON {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Runtime.Jupyter != "notebook@6" || cfg.Runtime.Mode != RunModeManaged {
		t.Errorf("runtime = %+v", cfg.Runtime)
	}
	if len(cfg.Runtime.With) != 1 || cfg.Runtime.With[0] != "polars" {
		t.Errorf("with = %v", cfg.Runtime.With)
	}
	if cfg.UV.Path != "/opt/bin/uv" {
		t.Errorf("uv path = %q, env should be expanded", cfg.UV.Path)
	}
	if cfg.Tools.Pager != "bat" {
		t.Errorf("pager = %q", cfg.Tools.Pager)
	}
}
