package target

import (
	"fmt"
	"log/slog"

	"github.com/example/vocaloid-announcer/internal/component"
	"github.com/example/vocaloid-announcer/internal/config"
	"github.com/example/vocaloid-announcer/internal/region"
)

// Issue ties an error to the sound it concerns.
type Issue struct {
	Filename string
	Err      error
}

func (i Issue) Error() string { return fmt.Sprintf("%s: %v", i.Filename, i.Err) }

func (i Issue) Unwrap() error { return i.Err }

// Target is one output profile and the sounds built for it.
type Target struct {
	Config config.TargetConfig
	Sounds []*Sound
	// Rejected lists sounds that could not be built.
	Rejected []Issue
	// Warnings lists sounds that were built but failed filename validation.
	Warnings []Issue
}

// Options configures target construction.
type Options struct {
	Logger   *slog.Logger
	Registry *component.Registry
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// NewTarget builds every sound of cfg in order. Sounds that fail to parse,
// or that would write to a path an earlier sound already writes to, are
// logged, recorded in Rejected and skipped.
func NewTarget(cfg config.TargetConfig, opts Options) *Target {
	log := opts.logger().With("target", cfg.Profile)
	reg := opts.Registry
	if reg == nil {
		reg = component.DefaultRegistry()
	}

	t := &Target{Config: cfg, Sounds: []*Sound{}}
	paths := make(map[string]string, len(cfg.Sounds))
	for _, entry := range cfg.Sounds {
		s, err := newSound(entry.Filename, entry.Definition, reg)
		if err == nil {
			path := outputPath(cfg, s.Filename)
			if first, ok := paths[path]; ok {
				err = fmt.Errorf("%w: %s (first used by %q)", ErrDuplicateOutput, path, first)
			} else {
				paths[path] = s.Filename
			}
		}
		if err != nil {
			log.Error("skipping sound", "filename", entry.Filename, "error", err)
			t.Rejected = append(t.Rejected, Issue{Filename: entry.Filename, Err: err})
			continue
		}

		if cfg.FilenamePattern != nil && !cfg.FilenamePattern.MatchString(s.Filename) {
			log.Warn("filename failed validation", "filename", s.Filename, "pattern", cfg.FilenamePattern.String())
			t.Warnings = append(t.Warnings, Issue{Filename: s.Filename, Err: ErrFilenameRejected})
		}

		t.Sounds = append(t.Sounds, s)
	}

	return t
}

// Resolve binds the region names of every sound, logging each name that
// could not be bound. It returns the number of diagnostics.
func (t *Target) Resolve(idx region.Index, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.Default()
	}

	var n int
	for _, s := range t.Sounds {
		for _, d := range s.Resolve(idx) {
			logger.Warn("unresolved region",
				"target", t.Config.Profile,
				"filename", s.Filename,
				"region", d.Name,
				"matches", d.Matches,
				"error", d.Err)
			n++
		}
	}

	return n
}

// Group is the set of targets processed in one run.
type Group struct {
	Targets []*Target
}

// LoadGroup loads and builds each target file in order.
func LoadGroup(paths []string, opts Options) (*Group, error) {
	g := &Group{Targets: make([]*Target, 0, len(paths))}
	for _, p := range paths {
		cfg, err := config.LoadTarget(p)
		if err != nil {
			return nil, err
		}
		g.Targets = append(g.Targets, NewTarget(cfg, opts))
	}

	return g, nil
}

// Resolve resolves every target. It returns the number of diagnostics.
func (g *Group) Resolve(idx region.Index, logger *slog.Logger) int {
	var n int
	for _, t := range g.Targets {
		n += t.Resolve(idx, logger)
	}
	return n
}
