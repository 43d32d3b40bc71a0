// Package doctor provides preflight checks for announcer builds: the region
// source manifest, its audio files and every target's sound definitions.
package doctor

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/example/vocaloid-announcer/internal/config"
	"github.com/example/vocaloid-announcer/internal/region"
	"github.com/example/vocaloid-announcer/internal/target"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// Config lists what to check.
type Config struct {
	// SourcesPath is the region source manifest.
	SourcesPath string
	// TargetPaths are target files whose sounds are checked against the
	// manifest.
	TargetPaths []string
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- source manifest --------------------------------------------------
	idx, err := region.LoadIndex(cfg.SourcesPath)
	if err != nil {
		res.fail(fmt.Sprintf("source manifest: %v", err))
		fmt.Fprintf(w, "%s source manifest %s: %v\n", FailMark, cfg.SourcesPath, err)
	} else {
		fmt.Fprintf(w, "%s source manifest: %s (%d regions)\n", PassMark, cfg.SourcesPath, len(idx.Regions()))

		// ---- source audio -------------------------------------------------
		for _, src := range idx.Sources() {
			buf, err := src.Audio()
			if err != nil {
				res.fail(fmt.Sprintf("source audio %q: %v", src.Name, err))
				fmt.Fprintf(w, "%s source audio %s: %v\n", FailMark, src.Path, err)
				continue
			}
			fmt.Fprintf(w, "%s source audio: %s (%d Hz, %d ch)\n",
				PassMark, src.Path, buf.Format.SampleRate, buf.Format.NumChannels)
		}
	}

	// ---- targets ----------------------------------------------------------
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, path := range cfg.TargetPaths {
		tc, err := config.LoadTarget(path)
		if err != nil {
			res.fail(fmt.Sprintf("target %q: %v", path, err))
			fmt.Fprintf(w, "%s target %s: %v\n", FailMark, path, err)
			continue
		}
		checkTarget(&res, w, target.NewTarget(tc, target.Options{Logger: quiet}), idx)
	}

	return res
}

func checkTarget(res *Result, w io.Writer, t *target.Target, idx *region.SourceIndex) {
	name := t.Config.Profile
	fmt.Fprintf(w, "%s target %s: %d sounds\n", PassMark, name, len(t.Sounds))

	for _, issue := range t.Rejected {
		res.fail(fmt.Sprintf("target %s: %v", name, issue))
		fmt.Fprintf(w, "%s   %v\n", FailMark, issue)
	}
	for _, issue := range t.Warnings {
		res.fail(fmt.Sprintf("target %s: %v", name, issue))
		fmt.Fprintf(w, "%s   %v\n", FailMark, issue)
	}

	if idx == nil {
		fmt.Fprintf(w, "%s   region checks: skipped (no source manifest)\n", FailMark)
		return
	}

	for _, s := range t.Sounds {
		diags := s.Resolve(idx)
		if len(diags) == 0 {
			fmt.Fprintf(w, "%s   %s: %d regions\n", PassMark, s.Filename, len(s.RequiredRegions()))
			continue
		}
		for _, d := range diags {
			res.fail(fmt.Sprintf("target %s: %s: %v", name, s.Filename, d))
			fmt.Fprintf(w, "%s   %s: %v\n", FailMark, s.Filename, d)
		}
	}
}
