// Package assemble folds a resolved component list into one audio buffer.
package assemble

import (
	"errors"
	"fmt"

	goaudio "github.com/go-audio/audio"

	"github.com/example/vocaloid-announcer/internal/component"
)

var (
	// ErrUnresolvedReference is returned when the list still holds an
	// unresolved region. Nothing is rendered in that case.
	ErrUnresolvedReference = errors.New("unresolved region reference")
	// ErrInvalidSkip is returned when a component claims more neighbours
	// than remain in the list.
	ErrInvalidSkip = errors.New("component consumed past end of sound")
)

// Assemble renders components left to right into a single buffer in the
// format of rc. Each component sees its positional neighbours and may
// consume following components, which are then not rendered on their own.
func Assemble(components []component.Component, rc component.RenderContext) (*goaudio.Float32Buffer, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	if missing := component.MissingNames(components); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnresolvedReference, missing)
	}

	var buf []float32
	for i := 0; i < len(components); {
		var prev, next *component.Component
		if i > 0 {
			prev = &components[i-1]
		}
		if i+1 < len(components) {
			next = &components[i+1]
		}

		out, skip, err := components[i].Render(prev, next, buf, rc)
		if err != nil {
			return nil, fmt.Errorf("component %d (%s): %w", i, components[i], err)
		}
		if skip < 0 || i+1+skip > len(components) {
			return nil, fmt.Errorf("%w: component %d skipped %d of %d", ErrInvalidSkip, i, skip, len(components)-i-1)
		}

		buf = out
		i += 1 + skip
	}

	return &goaudio.Float32Buffer{
		Data:   buf,
		Format: &goaudio.Format{SampleRate: rc.SampleRate, NumChannels: rc.Channels},
	}, nil
}
