package component

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/vocaloid-announcer/internal/audio"
)

// ErrUnrenderable is returned when rendering a component with no audio
// representation, such as an unresolved region.
var ErrUnrenderable = errors.New("component has no audio")

// RenderContext carries the output format and timing used while rendering.
type RenderContext struct {
	SampleRate int
	Channels   int
	// PauseNote is the duration of one pause measure.
	PauseNote time.Duration
	// Crossfade is the fade length applied where a region meets a pause.
	// Zero disables fading and pause consumption.
	Crossfade time.Duration
}

// Validate checks the render format.
func (rc RenderContext) Validate() error {
	if rc.SampleRate < 1 || rc.Channels < 1 {
		return fmt.Errorf("%w: %d Hz, %d channels", audio.ErrInvalidFormat, rc.SampleRate, rc.Channels)
	}
	if rc.PauseNote < 0 || rc.Crossfade < 0 {
		return errors.New("pause note and crossfade must not be negative")
	}

	return nil
}

// PauseFrames returns the frame length of a pause of measures measures.
func (rc RenderContext) PauseFrames(measures int) int {
	return measures * audio.DurationFrames(rc.PauseNote, rc.SampleRate)
}

func (rc RenderContext) fadeFrames() int {
	return audio.DurationFrames(rc.Crossfade, rc.SampleRate)
}

// Render appends c's audio to buf. prev and next are c's positional
// neighbours (nil at the edges). The returned skip is the number of
// following components c consumed; they must not be rendered again.
func (c Component) Render(prev, next *Component, buf []float32, rc RenderContext) ([]float32, int, error) {
	switch c.Kind {
	case KindPause:
		return append(buf, audio.Silence(rc.PauseFrames(c.Measures), rc.Channels)...), 0, nil
	case KindResolved:
		return c.renderRegion(prev, next, buf, rc)
	case KindUnresolved:
		return buf, 0, fmt.Errorf("%w: region %q is unresolved", ErrUnrenderable, c.Name)
	default:
		return buf, 0, fmt.Errorf("%w: %s", ErrUnrenderable, c.Kind)
	}
}

func (c Component) renderRegion(prev, next *Component, buf []float32, rc RenderContext) ([]float32, int, error) {
	if c.Region == nil {
		return buf, 0, fmt.Errorf("%w: region %q has no source", ErrUnrenderable, c.Name)
	}
	src, err := c.Region.Render()
	if err != nil {
		return buf, 0, fmt.Errorf("render region %q: %w", c.Name, err)
	}
	conv, err := audio.Normalize(src, 0, rc.Channels, rc.SampleRate)
	if err != nil {
		return buf, 0, fmt.Errorf("convert region %q: %w", c.Name, err)
	}
	samples := conv.Data
	frames := audio.Frames(conv)

	fade := rc.fadeFrames()
	if fade == 0 {
		return append(buf, samples...), 0, nil
	}

	if prev != nil && prev.Kind == KindPause {
		audio.FadeIn(samples, rc.Channels, min(fade, frames))
	}

	if next == nil || next.Kind != KindPause {
		return append(buf, samples...), 0, nil
	}

	// The region tail fades out over the start of the following pause.
	pause := rc.PauseFrames(next.Measures)
	overlap := min(fade, frames, pause)
	audio.FadeOut(samples, rc.Channels, overlap)
	buf = append(buf, samples...)
	buf = append(buf, audio.Silence(pause-overlap, rc.Channels)...)

	return buf, 1, nil
}
