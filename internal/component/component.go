// Package component defines the parts a target sound is assembled from:
// named source regions, resolved or not, and pauses measured in notes.
package component

import (
	"errors"
	"fmt"
	"strings"

	goaudio "github.com/go-audio/audio"
)

// ErrInvalidPause is returned for negative or non-dot pause input.
var ErrInvalidPause = errors.New("invalid pause")

// Kind tags which variant a Component holds.
type Kind int

const (
	KindUnresolved Kind = iota
	KindResolved
	KindPause
)

func (k Kind) String() string {
	switch k {
	case KindUnresolved:
		return "unresolved"
	case KindResolved:
		return "resolved"
	case KindPause:
		return "pause"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Region is a named, time-bounded segment of source audio.
type Region interface {
	Name() string
	Render() (*goaudio.Float32Buffer, error)
}

// Component is one slot of a sound. Only the fields relevant to Kind are
// set: Name for regions, Region for resolved regions, Measures for pauses.
type Component struct {
	Kind     Kind
	Name     string
	Region   Region
	Measures int
}

// Unresolved returns a region reference awaiting resolution.
func Unresolved(name string) Component {
	return Component{Kind: KindUnresolved, Name: name}
}

// Resolved returns a region reference bound to r.
func Resolved(name string, r Region) Component {
	return Component{Kind: KindResolved, Name: name, Region: r}
}

// NewPause returns a pause of n measures.
func NewPause(n int) (Component, error) {
	if n < 0 {
		return Component{}, fmt.Errorf("%w: %d measures", ErrInvalidPause, n)
	}

	return Component{Kind: KindPause, Measures: n}, nil
}

// PauseFromDots returns a pause of one measure per dot in dots.
func PauseFromDots(dots string) (Component, error) {
	if dots == "" || strings.Trim(dots, ".") != "" {
		return Component{}, fmt.Errorf("%w: %q is not a dot run", ErrInvalidPause, dots)
	}

	return NewPause(len(dots))
}

// IsRegion reports whether c refers to a source region.
func (c Component) IsRegion() bool {
	return c.Kind == KindUnresolved || c.Kind == KindResolved
}

func (c Component) String() string {
	switch c.Kind {
	case KindUnresolved:
		return fmt.Sprintf("Unresolved(%s)", c.Name)
	case KindResolved:
		return fmt.Sprintf("Resolved(%s)", c.Name)
	case KindPause:
		return fmt.Sprintf("Pause(%d)", c.Measures)
	default:
		return c.Kind.String()
	}
}

// RequiredNames returns the distinct region names in components, in the
// order they first appear.
func RequiredNames(components []Component) []string {
	return distinctNames(components, func(c Component) bool { return c.IsRegion() })
}

// MissingNames returns the distinct region names that are still unresolved.
func MissingNames(components []Component) []string {
	return distinctNames(components, func(c Component) bool { return c.Kind == KindUnresolved })
}

func distinctNames(components []Component, keep func(Component) bool) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, c := range components {
		if !keep(c) {
			continue
		}
		if _, ok := seen[c.Name]; ok {
			continue
		}
		seen[c.Name] = struct{}{}
		out = append(out, c.Name)
	}

	return out
}
