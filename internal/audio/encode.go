package audio

import (
	"bytes"
	"fmt"

	"github.com/cwbudde/wav"
	goaudio "github.com/go-audio/audio"
)

// DefaultBitDepth is the PCM bit depth used when none is configured.
const DefaultBitDepth = 16

// EncodeWAV encodes buf as a PCM WAV byte slice using the buffer's sample
// rate and channel count.
func EncodeWAV(buf *goaudio.Float32Buffer, bitDepth int) ([]byte, error) {
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("%w: missing buffer format", ErrInvalidFormat)
	}
	if buf.Format.SampleRate < 1 || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("%w: %d Hz, %d channels", ErrInvalidFormat, buf.Format.SampleRate, buf.Format.NumChannels)
	}
	if bitDepth == 0 {
		bitDepth = DefaultBitDepth
	}
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: bit depth %d", ErrInvalidFormat, bitDepth)
	}

	var out bytes.Buffer

	// wav.NewEncoder requires an io.WriteSeeker; bytes.Buffer is not one.
	sw := &seekBuffer{buf: &out}

	enc := wav.NewEncoder(sw, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels, 1) // 1 = PCM

	pcmBuf := &goaudio.Float32Buffer{
		Data:           buf.Data,
		Format:         &goaudio.Format{SampleRate: buf.Format.SampleRate, NumChannels: buf.Format.NumChannels},
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(pcmBuf); err != nil {
		return nil, fmt.Errorf("writing PCM: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing encoder: %w", err)
	}

	return out.Bytes(), nil
}

// seekBuffer wraps a bytes.Buffer to satisfy io.WriteSeeker.
type seekBuffer struct {
	buf *bytes.Buffer
	pos int
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	if s.pos == s.buf.Len() {
		n, err := s.buf.Write(p)
		s.pos += n
		return n, err
	}
	// Writing in the middle: overwrite existing bytes.
	data := s.buf.Bytes()
	n := copy(data[s.pos:], p)
	if n < len(p) {
		data = append(data, p[n:]...)
		s.buf.Reset()
		s.buf.Write(data)
		n = len(p)
	}
	s.pos += n
	return n, nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int
	switch whence {
	case 0: // io.SeekStart
		newPos = int(offset)
	case 1: // io.SeekCurrent
		newPos = s.pos + int(offset)
	case 2: // io.SeekEnd
		newPos = s.buf.Len() + int(offset)
	}
	if newPos < 0 {
		return 0, fmt.Errorf("seek before start")
	}
	s.pos = newPos
	return int64(newPos), nil
}
