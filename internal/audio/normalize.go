package audio

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/resample"
	goaudio "github.com/go-audio/audio"
)

// Normalize returns a new buffer with gainDB decibels of gain applied and
// the audio converted to channels channels at sampleRate Hz. The input is
// left untouched. All three steps are linear, so their order does not
// change the result.
//
// Down-mixing to mono averages all channels; any other channel change maps
// output channel c to input channel c modulo the input channel count.
// Resampling uses a polyphase windowed-sinc filter, so content above the
// output Nyquist frequency is attenuated rather than folded back.
func Normalize(buf *goaudio.Float32Buffer, gainDB float64, channels, sampleRate int) (*goaudio.Float32Buffer, error) {
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("%w: missing buffer format", ErrInvalidFormat)
	}
	if buf.Format.NumChannels < 1 || buf.Format.SampleRate < 1 {
		return nil, fmt.Errorf("%w: input %d Hz, %d channels", ErrInvalidFormat, buf.Format.SampleRate, buf.Format.NumChannels)
	}
	if channels < 1 || sampleRate < 1 {
		return nil, fmt.Errorf("%w: target %d Hz, %d channels", ErrInvalidFormat, sampleRate, channels)
	}

	data := remix(buf.Data, buf.Format.NumChannels, channels)
	data, err := resampleChannels(data, channels, buf.Format.SampleRate, sampleRate)
	if err != nil {
		return nil, err
	}
	data = Gain(data, gainDB)

	return &goaudio.Float32Buffer{
		Data:           data,
		Format:         &goaudio.Format{SampleRate: sampleRate, NumChannels: channels},
		SourceBitDepth: buf.SourceBitDepth,
	}, nil
}

// remix always returns a fresh slice.
func remix(in []float32, from, to int) []float32 {
	frames := len(in) / from
	out := make([]float32, frames*to)
	if from == to {
		copy(out, in[:frames*from])
		return out
	}

	for f := 0; f < frames; f++ {
		src := in[f*from : (f+1)*from]
		if to == 1 {
			var sum float32
			for _, s := range src {
				sum += s
			}
			out[f] = sum / float32(from)
			continue
		}
		for c := 0; c < to; c++ {
			out[f*to+c] = src[c%from]
		}
	}

	return out
}

// resampleChannels converts each channel with a polyphase anti-aliasing
// FIR. The input is extended at both ends by holding its edge frames so the
// filter does not ramp in from silence. The output is realigned by the
// filter delay and cut to round(frames*to/from) frames.
func resampleChannels(in []float32, channels, from, to int) ([]float32, error) {
	if from == to {
		return in, nil
	}
	frames := len(in) / channels
	if frames == 0 {
		return in[:0], nil
	}

	r, err := resample.NewForRates(float64(from), float64(to))
	if err != nil {
		return nil, fmt.Errorf("resample %d Hz to %d Hz: %w", from, to, err)
	}
	up, down := r.Ratio()
	delay := float64(len(r.Prototype())-1) / 2
	pad := int(math.Ceil(delay/float64(up))) + 1
	offset := int(math.Round((float64(pad*up) + delay) / float64(down)))
	outFrames := int(math.Round(float64(frames) * float64(to) / float64(from)))

	out := make([]float32, outFrames*channels)
	padded := make([]float64, frames+2*pad)
	for c := 0; c < channels; c++ {
		first, last := in[c], in[(frames-1)*channels+c]
		for i := 0; i < pad; i++ {
			padded[i] = float64(first)
			padded[pad+frames+i] = float64(last)
		}
		for f := 0; f < frames; f++ {
			padded[pad+f] = float64(in[f*channels+c])
		}

		r.Reset()
		y := r.Process(padded)
		for j := 0; j < outFrames; j++ {
			k := min(offset+j, len(y)-1)
			out[j*channels+c] = float32(y[k])
		}
	}

	return out, nil
}
