// Package target holds the target model built from configuration: groups of
// targets, each owning an ordered list of sounds, and the pipeline that
// resolves, assembles, normalizes and exports them.
package target

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/vocaloid-announcer/internal/component"
	"github.com/example/vocaloid-announcer/internal/region"
)

var (
	// ErrEmptyFilename is returned for a sound with no filename.
	ErrEmptyFilename = errors.New("empty filename")
	// ErrFilenameRejected reports a filename failing the target's
	// validation pattern. It is a warning; the sound is still built.
	ErrFilenameRejected = errors.New("filename does not match validation pattern")
	// ErrDuplicateOutput is returned for a sound whose output path is
	// already taken by an earlier sound of the same target.
	ErrDuplicateOutput = errors.New("output path already used by another sound")
)

// Sound is one output file and the components it is assembled from.
type Sound struct {
	Filename   string
	Definition string
	Components []component.Component
}

// NewSound parses definition with the default registry.
func NewSound(filename, definition string) (*Sound, error) {
	return newSound(filename, definition, component.DefaultRegistry())
}

func newSound(filename, definition string, reg *component.Registry) (*Sound, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, ErrEmptyFilename
	}

	comps, err := reg.ParseDefinition(definition)
	if err != nil {
		return nil, fmt.Errorf("sound %q: %w", filename, err)
	}

	return &Sound{Filename: filename, Definition: definition, Components: comps}, nil
}

// RequiredRegions returns the distinct region names the sound uses.
func (s *Sound) RequiredRegions() []string {
	return component.RequiredNames(s.Components)
}

// MissingRegions returns the distinct region names not yet resolved.
func (s *Sound) MissingRegions() []string {
	return component.MissingNames(s.Components)
}

// Resolved reports whether every region of the sound is bound.
func (s *Sound) Resolved() bool {
	return len(s.MissingRegions()) == 0
}

// Resolve binds the sound's region names against idx.
func (s *Sound) Resolve(idx region.Index) []region.Diagnostic {
	return region.Resolve(s.Components, idx)
}
