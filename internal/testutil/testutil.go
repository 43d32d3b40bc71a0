// Package testutil provides shared fixture builders for tests: WAV files,
// source manifests and target config files written under t.TempDir.
//
// Typical usage:
//
//	func TestBuild(t *testing.T) {
//	    dir := t.TempDir()
//	    testutil.WriteTone(t, filepath.Join(dir, "source.wav"), 1000, 100, 0.5)
//	    manifest := testutil.WriteManifest(t, dir, testutil.Source{...})
//	    ...
//	}
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"

	"github.com/example/vocaloid-announcer/internal/audio"
)

// Region is a manifest region entry in seconds.
type Region struct {
	Name  string  `json:"name"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Source is a manifest source entry.
type Source struct {
	Name      string   `json:"name,omitempty"`
	AudioFile string   `json:"audio_file"`
	Regions   []Region `json:"regions"`
}

// WriteWAV encodes buf as 16-bit PCM WAV at path.
func WriteWAV(tb testing.TB, path string, buf *goaudio.Float32Buffer) {
	tb.Helper()

	data, err := audio.EncodeWAV(buf, 16)
	if err != nil {
		tb.Fatalf("encode WAV fixture: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("write WAV fixture: %v", err)
	}
}

// WriteTone writes frames frames of mono audio at sampleRate Hz holding the
// constant value v.
func WriteTone(tb testing.TB, path string, sampleRate, frames int, v float32) {
	tb.Helper()

	data := make([]float32, frames)
	for i := range data {
		data[i] = v
	}
	WriteWAV(tb, path, &goaudio.Float32Buffer{
		Data:   data,
		Format: &goaudio.Format{SampleRate: sampleRate, NumChannels: 1},
	})
}

// WriteManifest writes a source manifest named sources.json into dir and
// returns its path.
func WriteManifest(tb testing.TB, dir string, sources ...Source) string {
	tb.Helper()

	data, err := json.MarshalIndent(map[string]any{"sources": sources}, "", "  ")
	if err != nil {
		tb.Fatalf("encode manifest fixture: %v", err)
	}

	path := filepath.Join(dir, "sources.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("write manifest fixture: %v", err)
	}

	return path
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(tb testing.TB, dir, name, content string) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatalf("write fixture %s: %v", name, err)
	}

	return path
}
