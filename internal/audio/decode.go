package audio

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/cwbudde/wav"
	goaudio "github.com/go-audio/audio"
)

// ErrInvalidFormat is returned when a buffer or WAV header carries an
// unusable sample rate, channel count or bit depth.
var ErrInvalidFormat = errors.New("invalid audio format")

// DecodeWAV decodes WAV bytes into an interleaved float32 buffer carrying the
// file's sample rate and channel count.
func DecodeWAV(data []byte) (*goaudio.Float32Buffer, error) {
	if len(data) == 0 {
		return nil, errors.New("empty WAV input")
	}

	r := bytes.NewReader(data)
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}

	if dec.SampleRate == 0 {
		return nil, fmt.Errorf("%w: sample rate 0", ErrInvalidFormat)
	}
	if dec.NumChans == 0 {
		return nil, fmt.Errorf("%w: 0 channels", ErrInvalidFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading PCM data: %w", err)
	}

	return &goaudio.Float32Buffer{
		Data: buf.Data,
		Format: &goaudio.Format{
			SampleRate:  int(dec.SampleRate),
			NumChannels: int(dec.NumChans),
		},
		SourceBitDepth: int(dec.BitDepth),
	}, nil
}

// DecodeWAVFile reads and decodes the WAV file at path.
func DecodeWAVFile(path string) (*goaudio.Float32Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read WAV file: %w", err)
	}

	buf, err := DecodeWAV(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return buf, nil
}

// Frames returns the number of sample frames in buf.
func Frames(buf *goaudio.Float32Buffer) int {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return 0
	}

	return len(buf.Data) / buf.Format.NumChannels
}
