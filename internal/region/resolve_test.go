package region

import (
	"errors"
	"reflect"
	"testing"

	goaudio "github.com/go-audio/audio"

	"github.com/example/vocaloid-announcer/internal/component"
)

type stubRegion string

func (s stubRegion) Name() string { return string(s) }

func (s stubRegion) Render() (*goaudio.Float32Buffer, error) {
	return monoBuffer(1000, []float32{1}), nil
}

func monoBuffer(rate int, data []float32) *goaudio.Float32Buffer {
	return &goaudio.Float32Buffer{Data: data, Format: &goaudio.Format{SampleRate: rate, NumChannels: 1}}
}

func testIndex() MapIndex {
	return MapIndex{
		"one": {stubRegion("one")},
		"two": {stubRegion("two"), stubRegion("two")},
	}
}

func TestResolve(t *testing.T) {
	t.Run("exactly one match resolves", func(t *testing.T) {
		comps := []component.Component{component.Unresolved("one")}
		diags := Resolve(comps, testIndex())
		if len(diags) != 0 {
			t.Fatalf("unexpected diagnostics %v", diags)
		}
		if comps[0].Kind != component.KindResolved || comps[0].Region != stubRegion("one") {
			t.Fatalf("slot = %+v, want resolved to one", comps[0])
		}
	})

	t.Run("missing name stays unresolved", func(t *testing.T) {
		comps := []component.Component{component.Unresolved("zero")}
		diags := Resolve(comps, testIndex())
		if comps[0].Kind != component.KindUnresolved {
			t.Fatalf("slot = %+v, want unresolved", comps[0])
		}
		if len(diags) != 1 || !errors.Is(diags[0], ErrMissingRegion) || diags[0].Matches != 0 {
			t.Fatalf("diagnostics = %v, want one missing", diags)
		}
	})

	t.Run("ambiguous name stays unresolved", func(t *testing.T) {
		comps := []component.Component{component.Unresolved("two")}
		diags := Resolve(comps, testIndex())
		if comps[0].Kind != component.KindUnresolved {
			t.Fatalf("slot = %+v, want unresolved", comps[0])
		}
		if len(diags) != 1 || !errors.Is(diags[0], ErrAmbiguousRegion) || diags[0].Matches != 2 {
			t.Fatalf("diagnostics = %v, want one ambiguous", diags)
		}
	})

	t.Run("repeated names are reported once", func(t *testing.T) {
		comps := []component.Component{component.Unresolved("zero"), component.Unresolved("zero")}
		if diags := Resolve(comps, testIndex()); len(diags) != 1 {
			t.Fatalf("got %d diagnostics, want 1", len(diags))
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		pause, _ := component.NewPause(2)
		comps := []component.Component{component.Unresolved("one"), pause, component.Unresolved("two")}
		Resolve(comps, testIndex())
		first := append([]component.Component(nil), comps...)
		Resolve(comps, MapIndex{})
		if !reflect.DeepEqual(first, comps) {
			t.Fatalf("second resolve changed slots: %v -> %v", first, comps)
		}
	})
}

func TestResolveRoundTrip(t *testing.T) {
	comps, err := component.ParseDefinition("one.one..three")
	if err != nil {
		t.Fatalf("ParseDefinition error: %v", err)
	}
	idx := MapIndex{"one": {stubRegion("one")}, "three": {stubRegion("three")}}

	if diags := Resolve(comps, idx); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
	if missing := component.MissingNames(comps); len(missing) != 0 {
		t.Errorf("MissingNames = %v, want empty", missing)
	}
	if got, want := component.RequiredNames(comps), []string{"one", "three"}; !reflect.DeepEqual(got, want) {
		t.Errorf("RequiredNames = %v, want %v", got, want)
	}
}

func TestDiagnosticError(t *testing.T) {
	d := Diagnostic{Name: "x", Matches: 2, Err: ErrAmbiguousRegion}
	if d.Error() != `"x": region name is ambiguous (2 matches)` {
		t.Errorf("Error() = %q", d.Error())
	}
}
