package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/goccy/go-yaml"
)

// TargetConfig describes one output profile: where its sounds go, the
// audio format they are written in and the definition of each sound.
type TargetConfig struct {
	Profile     string        `yaml:"profile"`
	Directory   string        `yaml:"directory"`
	AudioFormat AudioFormat   `yaml:"audio_format"`
	PauseNote   time.Duration `yaml:"pause_note"`
	// Crossfade is nil when the file does not set one. An explicit zero
	// disables fading for the target.
	Crossfade          *time.Duration `yaml:"crossfade"`
	FilenameValidation string         `yaml:"filename_validation"`
	Sounds             SoundList      `yaml:"sounds"`

	// Path is the file the target was loaded from.
	Path string `yaml:"-"`
	// FilenamePattern is the compiled FilenameValidation, nil when unset.
	FilenamePattern *regexp.Regexp `yaml:"-"`
	// Metadata holds every top-level key except sounds.
	Metadata map[string]any `yaml:"-"`
}

// AudioFormat is the output format of a target. Zero Channels or
// SampleFreq keep the source value.
type AudioFormat struct {
	Gain       float64 `yaml:"gain"`
	Channels   int     `yaml:"channels"`
	SampleFreq int     `yaml:"sample_freq"`
	Format     string  `yaml:"format"`
}

// SoundEntry is one filename/definition pair.
type SoundEntry struct {
	Filename   string
	Definition string
}

// SoundList is an ordered list of sounds. It decodes from a mapping of
// filename to definition, keeping key order, or from a sequence of
// [filename, definition] pairs.
type SoundList []SoundEntry

func (s *SoundList) UnmarshalYAML(data []byte) error {
	var pairs [][]string
	if err := yaml.Unmarshal(data, &pairs); err == nil {
		out := make(SoundList, 0, len(pairs))
		for i, p := range pairs {
			if len(p) != 2 {
				return fmt.Errorf("sounds[%d]: want [filename, definition], got %d values", i, len(p))
			}
			out = append(out, SoundEntry{Filename: p[0], Definition: p[1]})
		}
		*s = out
		return nil
	}

	var m yaml.MapSlice
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("sounds: want mapping or list of pairs: %w", err)
	}
	out := make(SoundList, 0, len(m))
	for _, item := range m {
		out = append(out, SoundEntry{Filename: scalar(item.Key), Definition: scalar(item.Value)})
	}
	*s = out

	return nil
}

func scalar(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// LoadTarget reads a target file (YAML or JSON). A relative directory is
// resolved against the target file's directory.
func LoadTarget(path string) (TargetConfig, error) {
	if path == "" {
		return TargetConfig{}, errors.New("target path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return TargetConfig{}, fmt.Errorf("read target: %w", err)
	}

	return ParseTarget(data, path)
}

// ParseTarget decodes target file content. path is used for error messages
// and to resolve a relative output directory.
func ParseTarget(data []byte, path string) (TargetConfig, error) {
	var cfg TargetConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return TargetConfig{}, fmt.Errorf("decode target %s: %w", path, err)
	}

	var meta map[string]any
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return TargetConfig{}, fmt.Errorf("decode target %s: %w", path, err)
	}
	delete(meta, "sounds")
	cfg.Metadata = meta
	cfg.Path = path

	if cfg.Profile == "" {
		cfg.Profile = trimExt(filepath.Base(path))
	}
	if cfg.Directory == "" {
		return TargetConfig{}, fmt.Errorf("target %s: directory is required", path)
	}
	if !filepath.IsAbs(cfg.Directory) {
		base, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return TargetConfig{}, fmt.Errorf("target %s: %w", path, err)
		}
		cfg.Directory = filepath.Join(base, cfg.Directory)
	}
	if cfg.PauseNote <= 0 {
		return TargetConfig{}, fmt.Errorf("target %s: pause_note must be a positive duration", path)
	}
	if cfg.Crossfade != nil && *cfg.Crossfade < 0 {
		return TargetConfig{}, fmt.Errorf("target %s: crossfade must not be negative", path)
	}
	if cfg.AudioFormat.Channels < 0 || cfg.AudioFormat.SampleFreq < 0 {
		return TargetConfig{}, fmt.Errorf("target %s: audio_format channels and sample_freq must not be negative", path)
	}
	if cfg.AudioFormat.Format == "" {
		cfg.AudioFormat.Format = "wav"
	}
	if cfg.FilenameValidation != "" {
		re, err := regexp.Compile(cfg.FilenameValidation)
		if err != nil {
			return TargetConfig{}, fmt.Errorf("target %s: filename_validation: %w", path, err)
		}
		cfg.FilenamePattern = re
	}

	return cfg, nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
