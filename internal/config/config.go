package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Paths    PathsConfig `mapstructure:"paths"`
	Build    BuildConfig `mapstructure:"build"`
	LogLevel string      `mapstructure:"log_level"`
}

type PathsConfig struct {
	// Sources is the region source manifest.
	Sources string `mapstructure:"sources"`
}

type BuildConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	BitDepth    int `mapstructure:"bit_depth"`
	// CrossfadeMS applies to targets that do not set their own crossfade.
	CrossfadeMS int `mapstructure:"crossfade_ms"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"sources":      "paths.sources",
	"concurrency":  "build.concurrency",
	"bit-depth":    "build.bit_depth",
	"crossfade-ms": "build.crossfade_ms",
	"log-level":    "log_level",
}

func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			Sources: "sources.json",
		},
		Build: BuildConfig{
			Concurrency: 4,
			BitDepth:    16,
			CrossfadeMS: 0,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("sources", defaults.Paths.Sources, "Path to region source manifest (JSON)")
	fs.Int("concurrency", defaults.Build.Concurrency, "Maximum sounds rendered in parallel")
	fs.Int("bit-depth", defaults.Build.BitDepth, "PCM bit depth of written WAV files (8|16|24|32)")
	fs.Int("crossfade-ms", defaults.Build.CrossfadeMS, "Default region/pause crossfade in milliseconds (0 disables)")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	v.SetEnvPrefix("ANNOUNCER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("announcer")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Build.Concurrency < 1 {
		return Config{}, fmt.Errorf("build.concurrency must be positive, got %d", cfg.Build.Concurrency)
	}
	if cfg.Build.CrossfadeMS < 0 {
		return Config{}, fmt.Errorf("build.crossfade_ms must not be negative, got %d", cfg.Build.CrossfadeMS)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.sources", c.Paths.Sources)
	v.SetDefault("build.concurrency", c.Build.Concurrency)
	v.SetDefault("build.bit_depth", c.Build.BitDepth)
	v.SetDefault("build.crossfade_ms", c.Build.CrossfadeMS)
	v.SetDefault("log_level", c.LogLevel)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("flag %s: %w", name, err)
		}
	}

	return nil
}

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}
