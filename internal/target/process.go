package target

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/sourcegraph/conc/pool"

	"github.com/example/vocaloid-announcer/internal/assemble"
	"github.com/example/vocaloid-announcer/internal/audio"
	"github.com/example/vocaloid-announcer/internal/component"
	"github.com/example/vocaloid-announcer/internal/config"
)

// Exporter writes an assembled buffer to path in the given format.
type Exporter interface {
	Export(buf *goaudio.Float32Buffer, path, format string) error
}

// ProcessOptions configures Group.Process.
type ProcessOptions struct {
	Exporter Exporter
	// Concurrency bounds the number of sounds rendered at once.
	Concurrency int
	// Crossfade is used by targets that do not set their own.
	Crossfade time.Duration
	Logger    *slog.Logger
}

// Result is the outcome of one sound.
type Result struct {
	Target   string
	Filename string
	Path     string
	Err      error
}

// Report collects the results of a Process run in target and sound order.
type Report struct {
	Results []Result
}

// Failed returns the results that carry an error.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Written returns the number of files written.
func (r Report) Written() int {
	return len(r.Results) - len(r.Failed())
}

// Process renders and exports every sound of every target. A failing sound
// does not stop its siblings; each failure is logged and reported. Sounds
// rejected at construction time are reported as failures too.
func (g *Group) Process(ctx context.Context, opts ProcessOptions) Report {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	exporter := opts.Exporter
	if exporter == nil {
		exporter = audio.WAVExporter{}
	}
	workers := opts.Concurrency
	if workers < 1 {
		workers = 1
	}

	var report Report
	for _, t := range g.Targets {
		report.Results = append(report.Results, t.process(ctx, exporter, workers, opts.Crossfade, logger)...)
	}

	return report
}

func (t *Target) process(ctx context.Context, exporter Exporter, workers int, crossfade time.Duration, logger *slog.Logger) []Result {
	cfg := t.Config
	log := logger.With("target", cfg.Profile)
	log.Info("processing target", "directory", cfg.Directory, "sounds", len(t.Sounds))

	results := make([]Result, len(t.Sounds), len(t.Sounds)+len(t.Rejected))
	for i, s := range t.Sounds {
		results[i] = Result{Target: cfg.Profile, Filename: s.Filename, Path: outputPath(cfg, s.Filename)}
	}

	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		err = fmt.Errorf("create output directory: %w", err)
		log.Error("cannot create output directory", "error", err)
		for i := range results {
			results[i].Err = err
		}
		return appendRejected(results, t)
	}

	if cfg.Crossfade != nil {
		crossfade = *cfg.Crossfade
	}

	p := pool.New().WithMaxGoroutines(workers)
	for i, s := range t.Sounds {
		res := &results[i]
		p.Go(func() {
			if err := ctx.Err(); err != nil {
				res.Err = err
				return
			}
			res.Err = renderSound(s, cfg, crossfade, exporter, res.Path)
			if res.Err != nil {
				log.Error("sound failed", "filename", s.Filename, "error", res.Err)
				return
			}
			log.Info("wrote sound", "filename", s.Filename, "path", res.Path)
		})
	}
	p.Wait()

	return appendRejected(results, t)
}

func appendRejected(results []Result, t *Target) []Result {
	for _, r := range t.Rejected {
		results = append(results, Result{Target: t.Config.Profile, Filename: r.Filename, Err: r.Err})
	}
	return results
}

func renderSound(s *Sound, cfg config.TargetConfig, crossfade time.Duration, exporter Exporter, path string) error {
	rate, channels, err := renderFormat(s, cfg.AudioFormat)
	if err != nil {
		return err
	}

	rc := component.RenderContext{
		SampleRate: rate,
		Channels:   channels,
		PauseNote:  cfg.PauseNote,
		Crossfade:  crossfade,
	}
	buf, err := assemble.Assemble(s.Components, rc)
	if err != nil {
		return err
	}

	out, err := audio.Normalize(buf, cfg.AudioFormat.Gain, channels, rate)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}

	return exporter.Export(out, path, cfg.AudioFormat.Format)
}

// renderFormat picks the assembly format: the target's configured values,
// falling back to the format of the sound's first region.
func renderFormat(s *Sound, af config.AudioFormat) (int, int, error) {
	rate, channels := af.SampleFreq, af.Channels
	if rate > 0 && channels > 0 {
		return rate, channels, nil
	}

	for _, c := range s.Components {
		if c.Kind != component.KindResolved {
			continue
		}
		src, err := c.Region.Render()
		if err != nil {
			return 0, 0, fmt.Errorf("render region %q: %w", c.Name, err)
		}
		if rate == 0 {
			rate = src.Format.SampleRate
		}
		if channels == 0 {
			channels = src.Format.NumChannels
		}
		return rate, channels, nil
	}

	// No resolved region to take the format from; Assemble reports why.
	if rate == 0 {
		rate = 44100
	}
	if channels == 0 {
		channels = 1
	}
	return rate, channels, nil
}

func outputPath(cfg config.TargetConfig, filename string) string {
	if filepath.Ext(filename) == "" && cfg.AudioFormat.Format != "" {
		filename += "." + cfg.AudioFormat.Format
	}
	return filepath.Join(cfg.Directory, filename)
}
