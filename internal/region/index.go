// Package region indexes named regions of source audio and resolves
// component references against them.
package region

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	goaudio "github.com/go-audio/audio"

	"github.com/example/vocaloid-announcer/internal/audio"
	"github.com/example/vocaloid-announcer/internal/component"
)

// Index finds regions by exact name.
type Index interface {
	Find(name string) []component.Region
}

// MapIndex is an in-memory Index keyed by region name.
type MapIndex map[string][]component.Region

// Find returns all regions registered under name.
func (m MapIndex) Find(name string) []component.Region {
	return append([]component.Region(nil), m[name]...)
}

type manifestFile struct {
	Sources []sourceEntry `json:"sources"`
}

type sourceEntry struct {
	Name      string        `json:"name"`
	AudioFile string        `json:"audio_file"`
	Regions   []regionEntry `json:"regions"`
}

type regionEntry struct {
	Name  string  `json:"name"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Source is one audio file regions are cut from. Its audio is decoded on
// first use and shared by all of its regions.
type Source struct {
	Name string
	Path string

	once sync.Once
	buf  *goaudio.Float32Buffer
	err  error
}

func (s *Source) load() (*goaudio.Float32Buffer, error) {
	s.once.Do(func() {
		s.buf, s.err = audio.DecodeWAVFile(s.Path)
	})
	return s.buf, s.err
}

// Audio returns the decoded source audio.
func (s *Source) Audio() (*goaudio.Float32Buffer, error) {
	return s.load()
}

// Handle is a region of a Source between Start and End.
type Handle struct {
	name   string
	Source *Source
	Start  time.Duration
	End    time.Duration
}

// Name returns the region name.
func (h *Handle) Name() string { return h.name }

// Render returns a copy of the region's audio.
func (h *Handle) Render() (*goaudio.Float32Buffer, error) {
	src, err := h.Source.load()
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", h.Source.Name, err)
	}

	ch := src.Format.NumChannels
	total := audio.Frames(src)
	first := min(audio.DurationFrames(h.Start, src.Format.SampleRate), total)
	last := min(audio.DurationFrames(h.End, src.Format.SampleRate), total)

	data := make([]float32, (last-first)*ch)
	copy(data, src.Data[first*ch:last*ch])

	return &goaudio.Float32Buffer{
		Data:           data,
		Format:         &goaudio.Format{SampleRate: src.Format.SampleRate, NumChannels: ch},
		SourceBitDepth: src.SourceBitDepth,
	}, nil
}

// SourceIndex is an Index over regions declared in a source manifest. It is
// read-only after LoadIndex returns and safe for concurrent use.
type SourceIndex struct {
	sources []*Source
	regions []*Handle
	byName  map[string][]*Handle
}

// LoadIndex reads a JSON source manifest. Audio file paths are resolved
// relative to the manifest directory.
func LoadIndex(manifestPath string) (*SourceIndex, error) {
	if manifestPath == "" {
		return nil, errors.New("source manifest path is required")
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read source manifest: %w", err)
	}

	var manifest manifestFile

	err = json.Unmarshal(data, &manifest)
	if err != nil {
		return nil, fmt.Errorf("decode source manifest: %w", err)
	}

	baseDir := filepath.Dir(manifestPath)
	idx := &SourceIndex{byName: make(map[string][]*Handle)}

	for i, se := range manifest.Sources {
		if se.AudioFile == "" {
			return nil, fmt.Errorf("source %d has empty audio_file", i)
		}

		path := se.AudioFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		name := se.Name
		if name == "" {
			name = filepath.Base(path)
		}

		src := &Source{Name: name, Path: filepath.Clean(path)}
		idx.sources = append(idx.sources, src)

		for _, re := range se.Regions {
			h, err := newHandle(src, re)
			if err != nil {
				return nil, fmt.Errorf("source %q: %w", name, err)
			}
			idx.regions = append(idx.regions, h)
			idx.byName[h.name] = append(idx.byName[h.name], h)
		}
	}

	return idx, nil
}

func newHandle(src *Source, re regionEntry) (*Handle, error) {
	if re.Name == "" {
		return nil, errors.New("region with empty name")
	}
	if re.Start < 0 || re.End <= re.Start || math.IsNaN(re.Start) || math.IsNaN(re.End) {
		return nil, fmt.Errorf("region %q has invalid bounds [%g, %g)", re.Name, re.Start, re.End)
	}

	return &Handle{
		name:   re.Name,
		Source: src,
		Start:  seconds(re.Start),
		End:    seconds(re.End),
	}, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// Find returns every region named name.
func (idx *SourceIndex) Find(name string) []component.Region {
	handles := idx.byName[name]
	out := make([]component.Region, 0, len(handles))
	for _, h := range handles {
		out = append(out, h)
	}
	return out
}

// Names returns the distinct region names, sorted.
func (idx *SourceIndex) Names() []string {
	out := make([]string, 0, len(idx.byName))
	for name := range idx.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Regions returns every region in manifest order.
func (idx *SourceIndex) Regions() []*Handle {
	return append([]*Handle(nil), idx.regions...)
}

// Sources returns every source in manifest order.
func (idx *SourceIndex) Sources() []*Source {
	return append([]*Source(nil), idx.sources...)
}
