package component

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/example/vocaloid-announcer/internal/definition"
)

// ErrNoMatchingType is returned when no registered candidate accepts a token.
var ErrNoMatchingType = errors.New("no matching component type")

// Candidate builds one component variant from tokens matching Pattern.
// A Build error only rejects the token; classification moves on to the
// next candidate.
type Candidate struct {
	Kind    Kind
	Pattern *regexp.Regexp
	Build   func(raw string) (Component, error)
}

// Registry classifies raw tokens by trying its candidates in order.
type Registry struct {
	candidates []Candidate
}

// NewRegistry returns a registry trying candidates in the given order.
func NewRegistry(candidates ...Candidate) *Registry {
	return &Registry{candidates: append([]Candidate(nil), candidates...)}
}

// DefaultRegistry returns the registry used for definition strings: pauses
// are tried before region names.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Candidate{
			Kind:    KindPause,
			Pattern: regexp.MustCompile(`^\.+$`),
			Build:   PauseFromDots,
		},
		Candidate{
			Kind:    KindUnresolved,
			Pattern: regexp.MustCompile(`^` + definition.WordClass + `+$`),
			Build:   func(raw string) (Component, error) { return Unresolved(raw), nil },
		},
	)
}

// Classify returns the component built by the first candidate accepting raw.
func (r *Registry) Classify(raw string) (Component, error) {
	for _, c := range r.candidates {
		if c.Pattern != nil && !c.Pattern.MatchString(raw) {
			continue
		}
		comp, err := c.Build(raw)
		if err != nil {
			continue
		}
		return comp, nil
	}

	return Component{}, fmt.Errorf("%w: %q", ErrNoMatchingType, raw)
}

// ParseDefinition lexes def and classifies each token with the default
// registry.
func ParseDefinition(def string) ([]Component, error) {
	return DefaultRegistry().ParseDefinition(def)
}

// ParseDefinition lexes def and classifies each token with r.
func (r *Registry) ParseDefinition(def string) ([]Component, error) {
	tokens, err := definition.Parse(def)
	if err != nil {
		return nil, err
	}

	out := make([]Component, 0, len(tokens))
	for _, tok := range tokens {
		c, err := r.Classify(tok.Text)
		if err != nil {
			return nil, fmt.Errorf("token at offset %d: %w", tok.Offset, err)
		}
		out = append(out, c)
	}

	return out, nil
}
