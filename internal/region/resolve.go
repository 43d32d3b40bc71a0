package region

import (
	"errors"
	"fmt"

	"github.com/example/vocaloid-announcer/internal/component"
)

var (
	// ErrMissingRegion reports a name with no region in the index.
	ErrMissingRegion = errors.New("region not found")
	// ErrAmbiguousRegion reports a name matching more than one region.
	ErrAmbiguousRegion = errors.New("region name is ambiguous")
)

// Diagnostic describes a name Resolve could not bind.
type Diagnostic struct {
	Name    string
	Matches int
	Err     error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%q: %v (%d matches)", d.Name, d.Err, d.Matches)
}

func (d Diagnostic) Unwrap() error { return d.Err }

// Resolve binds every unresolved component in components to its region in
// idx, replacing the slot in place. Names matching zero or several regions
// stay unresolved and are reported once each. Resolved components and
// pauses are left alone, so Resolve can be applied repeatedly.
func Resolve(components []component.Component, idx Index) []Diagnostic {
	var diags []Diagnostic
	reported := make(map[string]struct{})

	for i, c := range components {
		if c.Kind != component.KindUnresolved {
			continue
		}

		matches := idx.Find(c.Name)
		if len(matches) == 1 {
			components[i] = component.Resolved(c.Name, matches[0])
			continue
		}

		if _, ok := reported[c.Name]; ok {
			continue
		}
		reported[c.Name] = struct{}{}

		err := ErrMissingRegion
		if len(matches) > 1 {
			err = ErrAmbiguousRegion
		}
		diags = append(diags, Diagnostic{Name: c.Name, Matches: len(matches), Err: err})
	}

	return diags
}
