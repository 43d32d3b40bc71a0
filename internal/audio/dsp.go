package audio

import (
	"math"
	"time"

	"github.com/cwbudde/algo-dsp/dsp/core"
)

// DurationFrames converts d to a whole number of frames at sampleRate.
func DurationFrames(d time.Duration, sampleRate int) int {
	if d <= 0 || sampleRate < 1 {
		return 0
	}

	return int(math.Round(d.Seconds() * float64(sampleRate)))
}

// Silence returns frames frames of zeroed interleaved samples.
func Silence(frames, channels int) []float32 {
	if frames < 1 || channels < 1 {
		return nil
	}

	return make([]float32, frames*channels)
}

// Gain scales samples in place by the linear equivalent of db decibels.
func Gain(samples []float32, db float64) []float32 {
	if db == 0 {
		return samples
	}
	g := float32(core.DBToLinear(db))
	for i := range samples {
		samples[i] *= g
	}

	return samples
}

// FadeIn applies a linear fade-in ramp over the first frames frames of the
// interleaved samples. The first frame is silent.
func FadeIn(samples []float32, channels, frames int) []float32 {
	if channels < 1 {
		return samples
	}
	total := len(samples) / channels
	if frames > total {
		frames = total
	}
	for f := 0; f < frames; f++ {
		g := float32(f) / float32(frames)
		for c := 0; c < channels; c++ {
			samples[f*channels+c] *= g
		}
	}

	return samples
}

// FadeOut applies a linear fade-out ramp over the last frames frames of the
// interleaved samples. The last frame is silent.
func FadeOut(samples []float32, channels, frames int) []float32 {
	if channels < 1 {
		return samples
	}
	total := len(samples) / channels
	if frames > total {
		frames = total
	}
	start := total - frames
	for k := 0; k < frames; k++ {
		g := float32(frames-1-k) / float32(frames)
		for c := 0; c < channels; c++ {
			samples[(start+k)*channels+c] *= g
		}
	}

	return samples
}
