package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

// fakeBinder wraps a pflag.FlagSet to satisfy the flagBinder interface.
type fakeBinder struct {
	fs *pflag.FlagSet
}

func (f *fakeBinder) Flags() *pflag.FlagSet { return f.fs }

// newFlagBinder creates a FlagSet with all config flags registered at their defaults.
func newFlagBinder(defaults Config) *fakeBinder {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, defaults)

	return &fakeBinder{fs: fs}
}

// chdirTemp moves into an empty directory so no announcer.* file is picked up.
func chdirTemp(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Paths.Sources != "sources.json" {
		t.Errorf("Paths.Sources = %q; want %q", cfg.Paths.Sources, "sources.json")
	}

	if cfg.Build.Concurrency != 4 {
		t.Errorf("Build.Concurrency = %d; want 4", cfg.Build.Concurrency)
	}

	if cfg.Build.BitDepth != 16 {
		t.Errorf("Build.BitDepth = %d; want 16", cfg.Build.BitDepth)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "info")
	}
}

func TestRegisterFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, DefaultConfig())

	for name := range flagKeys {
		if fs.Lookup(name) == nil {
			t.Errorf("flag %q not registered", name)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	defaults := DefaultConfig()

	cfg, err := Load(LoadOptions{
		Cmd:      newFlagBinder(defaults),
		Defaults: defaults,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg != defaults {
		t.Errorf("Load() = %+v; want %+v", cfg, defaults)
	}
}

func TestLoad_FlagOverride(t *testing.T) {
	chdirTemp(t)
	defaults := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, defaults)

	err := fs.Parse([]string{
		"--sources=other.json",
		"--concurrency=8",
		"--crossfade-ms=15",
		"--log-level=debug",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	cfg, err := Load(LoadOptions{
		Cmd:      &fakeBinder{fs: fs},
		Defaults: defaults,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Paths.Sources != "other.json" {
		t.Errorf("Paths.Sources = %q; want %q", cfg.Paths.Sources, "other.json")
	}

	if cfg.Build.Concurrency != 8 {
		t.Errorf("Build.Concurrency = %d; want 8", cfg.Build.Concurrency)
	}

	if cfg.Build.CrossfadeMS != 15 {
		t.Errorf("Build.CrossfadeMS = %d; want 15", cfg.Build.CrossfadeMS)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "debug")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ANNOUNCER_LOG_LEVEL", "warn")
	t.Setenv("ANNOUNCER_BUILD_BIT_DEPTH", "24")

	cfg, err := Load(LoadOptions{
		Defaults: DefaultConfig(),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "warn")
	}

	if cfg.Build.BitDepth != 24 {
		t.Errorf("Build.BitDepth = %d; want 24", cfg.Build.BitDepth)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	chdirTemp(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "announcer.yaml")
	content := "paths:\n  sources: /data/sources.json\nbuild:\n  concurrency: 2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	defaults := DefaultConfig()
	cfg, err := Load(LoadOptions{
		Cmd:        newFlagBinder(defaults),
		ConfigFile: path,
		Defaults:   defaults,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Paths.Sources != "/data/sources.json" {
		t.Errorf("Paths.Sources = %q; want %q", cfg.Paths.Sources, "/data/sources.json")
	}

	if cfg.Build.Concurrency != 2 {
		t.Errorf("Build.Concurrency = %d; want 2", cfg.Build.Concurrency)
	}

	if cfg.Build.BitDepth != defaults.Build.BitDepth {
		t.Errorf("Build.BitDepth = %d; want %d", cfg.Build.BitDepth, defaults.Build.BitDepth)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ANNOUNCER_BUILD_CONCURRENCY", "0")

	if _, err := Load(LoadOptions{Defaults: DefaultConfig()}); err == nil {
		t.Fatal("expected error for zero concurrency")
	}
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	_, err := Load(LoadOptions{
		ConfigFile: filepath.Join(t.TempDir(), "nope.yaml"),
		Defaults:   DefaultConfig(),
	})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level   string
		wantLvl slog.Level
	}{
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			lvl, err := ParseLogLevel(tc.level)
			if err != nil {
				t.Fatalf("ParseLogLevel(%q) error: %v", tc.level, err)
			}
			if lvl != tc.wantLvl {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tc.level, lvl, tc.wantLvl)
			}
		})
	}

	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Error("want error for unknown log level")
	}
}
