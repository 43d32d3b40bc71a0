package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
)

// ErrUnsupportedFormat is returned for output format tags the exporter
// cannot write.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// FormatWAV is the only output format tag WAVExporter writes.
const FormatWAV = "wav"

// WAVExporter writes buffers as PCM WAV files.
type WAVExporter struct {
	BitDepth int
}

// Export writes buf to path in the given format, creating parent
// directories as needed.
func (e WAVExporter) Export(buf *goaudio.Float32Buffer, path, format string) error {
	if f := strings.ToLower(format); f != "" && f != FormatWAV {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	data, err := EncodeWAV(buf, e.BitDepth)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
