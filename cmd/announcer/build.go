package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/example/vocaloid-announcer/internal/audio"
	"github.com/example/vocaloid-announcer/internal/target"
	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "build TARGET...",
		Short: "Assemble and write every sound of the given target files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			idx, err := loadIndex(cfg)
			if err != nil {
				return err
			}

			logger := slog.Default()
			group, err := target.LoadGroup(args, target.Options{Logger: logger})
			if err != nil {
				return err
			}

			if n := group.Resolve(idx, logger); n > 0 && strict {
				return fmt.Errorf("%d region references could not be resolved", n)
			}

			report := group.Process(cmd.Context(), target.ProcessOptions{
				Exporter:    audio.WAVExporter{BitDepth: cfg.Build.BitDepth},
				Concurrency: cfg.Build.Concurrency,
				Crossfade:   time.Duration(cfg.Build.CrossfadeMS) * time.Millisecond,
				Logger:      logger,
			})

			return summarize(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail before rendering if any region reference is unresolved")

	return cmd
}

func summarize(w io.Writer, report target.Report) error {
	for _, r := range report.Results {
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "FAIL %s/%s: %v\n", r.Target, r.Filename, r.Err)
			continue
		}
		_, _ = fmt.Fprintf(w, "ok   %s/%s -> %s\n", r.Target, r.Filename, r.Path)
	}

	failed := len(report.Failed())
	_, _ = fmt.Fprintf(w, "%d written, %d failed\n", report.Written(), failed)
	if failed > 0 {
		return fmt.Errorf("%d sounds failed", failed)
	}

	return nil
}
