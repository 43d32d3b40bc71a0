package main

import (
	"fmt"

	goaudio "github.com/go-audio/audio"
	"github.com/spf13/cobra"

	"github.com/example/vocaloid-announcer/internal/audio"
	"github.com/example/vocaloid-announcer/internal/doctor"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor [TARGET...]",
		Short: "Check the region sources and target definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			result := doctor.Run(doctor.Config{
				SourcesPath: cfg.Paths.Sources,
				TargetPaths: args,
			}, out)

			// The bit depth is only used by the exporter, so check it here
			// with a one-frame encode.
			frame := &goaudio.Float32Buffer{
				Data:   []float32{0},
				Format: &goaudio.Format{SampleRate: 8000, NumChannels: 1},
			}
			if _, err := audio.EncodeWAV(frame, cfg.Build.BitDepth); err != nil {
				result.AddFailure(fmt.Sprintf("output encoding: %v", err))
				_, _ = fmt.Fprintf(out, "%s output encoding: %v\n", doctor.FailMark, err)
			} else {
				depth := cfg.Build.BitDepth
				if depth == 0 {
					depth = audio.DefaultBitDepth
				}
				_, _ = fmt.Fprintf(out, "%s output encoding: %d-bit PCM WAV\n", doctor.PassMark, depth)
			}

			if result.Failed() {
				return fmt.Errorf("doctor found %d problem(s)", len(result.Failures()))
			}

			return nil
		},
	}

	return cmd
}
