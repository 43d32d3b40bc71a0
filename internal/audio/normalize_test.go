package audio

import (
	"errors"
	"math"
	"testing"

	goaudio "github.com/go-audio/audio"
)

func TestNormalize(t *testing.T) {
	t.Run("does not modify input", func(t *testing.T) {
		in := monoBuffer(8000, 0.5, 0.5)
		_, err := Normalize(in, 6, 2, 16000)
		if err != nil {
			t.Fatalf("Normalize error: %v", err)
		}
		if in.Data[0] != 0.5 || in.Format.NumChannels != 1 || in.Format.SampleRate != 8000 {
			t.Fatalf("input mutated: %+v %+v", in.Data, *in.Format)
		}
	})

	t.Run("applies gain", func(t *testing.T) {
		got, err := Normalize(monoBuffer(8000, 0.5), -6.0206, 1, 8000)
		if err != nil {
			t.Fatalf("Normalize error: %v", err)
		}
		if math.Abs(float64(got.Data[0])-0.25) > 1e-4 {
			t.Errorf("sample = %f, want 0.25", got.Data[0])
		}
	})

	t.Run("up-mixes mono to stereo", func(t *testing.T) {
		got, err := Normalize(monoBuffer(8000, 0.1, 0.2), 0, 2, 8000)
		if err != nil {
			t.Fatalf("Normalize error: %v", err)
		}
		want := []float32{0.1, 0.1, 0.2, 0.2}
		assertSamples(t, got.Data, want)
		if got.Format.NumChannels != 2 {
			t.Errorf("channels = %d, want 2", got.Format.NumChannels)
		}
	})

	t.Run("down-mixes stereo to mono by averaging", func(t *testing.T) {
		in := &goaudio.Float32Buffer{
			Data:   []float32{0.2, 0.4, -1, 1},
			Format: &goaudio.Format{SampleRate: 8000, NumChannels: 2},
		}
		got, err := Normalize(in, 0, 1, 8000)
		if err != nil {
			t.Fatalf("Normalize error: %v", err)
		}
		assertSamples(t, got.Data, []float32{0.3, 0})
	})

	t.Run("upsampling keeps a constant level", func(t *testing.T) {
		got, err := Normalize(monoBuffer(8000, 0.5, 0.5, 0.5, 0.5), 0, 1, 16000)
		if err != nil {
			t.Fatalf("Normalize error: %v", err)
		}
		assertNear(t, got.Data, []float32{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, 1e-3)
	})

	t.Run("downsampling keeps a constant level", func(t *testing.T) {
		got, err := Normalize(monoBuffer(16000, -0.25, -0.25, -0.25, -0.25, -0.25, -0.25), 0, 1, 8000)
		if err != nil {
			t.Fatalf("Normalize error: %v", err)
		}
		assertNear(t, got.Data, []float32{-0.25, -0.25, -0.25}, 1e-3)
	})

	t.Run("gain commutes with resampling", func(t *testing.T) {
		in := monoBuffer(8000, 0.1, 0.3, -0.2, 0.05)
		a, err := Normalize(in, 4, 2, 11025)
		if err != nil {
			t.Fatalf("Normalize error: %v", err)
		}
		resampled, err := Normalize(in, 0, 2, 11025)
		if err != nil {
			t.Fatalf("Normalize error: %v", err)
		}
		b, err := Normalize(resampled, 4, 2, 11025)
		if err != nil {
			t.Fatalf("Normalize error: %v", err)
		}
		assertSamples(t, a.Data, b.Data)
	})

	t.Run("rejects invalid targets", func(t *testing.T) {
		if _, err := Normalize(monoBuffer(8000, 0), 0, 0, 8000); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("got %v, want ErrInvalidFormat", err)
		}
		if _, err := Normalize(nil, 0, 1, 8000); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("got %v, want ErrInvalidFormat", err)
		}
	})
}

func TestNormalize_Idempotent(t *testing.T) {
	in := monoBuffer(22050, 0.1, -0.4, 0.9, 0.0, 0.3)
	once, err := Normalize(in, 0, 2, 44100)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	twice, err := Normalize(once, 0, 2, 44100)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if *twice.Format != *once.Format {
		t.Fatalf("format changed: %+v vs %+v", *twice.Format, *once.Format)
	}
	assertSamples(t, twice.Data, once.Data)
}

func TestNormalize_ResampleBandLimit(t *testing.T) {
	tests := []struct {
		name    string
		freq    float64
		wantMin float64
		wantMax float64
	}{
		{name: "tone above output nyquist is removed", freq: 15000, wantMin: 0, wantMax: 0.01},
		{name: "tone in passband is kept", freq: 1000, wantMin: 0.69, wantMax: 0.72},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sineBuffer(48000, tt.freq, 4800)
			got, err := Normalize(in, 0, 1, 16000)
			if err != nil {
				t.Fatalf("Normalize error: %v", err)
			}
			if len(got.Data) != 1600 {
				t.Fatalf("len = %d, want 1600", len(got.Data))
			}
			// Skip the edges, where the held end frames meet the filter.
			if r := rms(got.Data[200:1400]); r < tt.wantMin || r > tt.wantMax {
				t.Errorf("RMS of %.0f Hz tone after 48k->16k = %.4f, want [%.2f, %.2f]", tt.freq, r, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func sineBuffer(rate int, freq float64, frames int) *goaudio.Float32Buffer {
	data := make([]float32, frames)
	for i := range data {
		data[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / float64(rate)))
	}
	return monoBuffer(rate, data...)
}

func rms(samples []float32) float64 {
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func assertNear(t *testing.T, got, want []float32, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v vs %v)", len(got), len(want), got, want)
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > tol {
			t.Errorf("sample[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func assertSamples(t *testing.T, got, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v vs %v)", len(got), len(want), got, want)
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-5 {
			t.Errorf("sample[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}
