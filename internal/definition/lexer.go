// Package definition lexes sound definition strings.
//
// A definition names a sequence of source regions separated by pause
// markers, e.g. "attention...platform.two". Names are runs of Unicode
// letters, digits and underscores; each run of dots is a pause of one
// measure per dot.
package definition

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

var (
	// ErrEmptyDefinition is returned for an empty definition string.
	ErrEmptyDefinition = errors.New("empty definition")
	// ErrMalformedDefinition is returned when the definition does not match
	// the NAME (PAUSE NAME)* grammar as a whole.
	ErrMalformedDefinition = errors.New("malformed definition")
	// ErrTokenCountMismatch is returned when the number of names is not one
	// more than the number of pauses.
	ErrTokenCountMismatch = errors.New("name/pause count mismatch")
)

// WordClass matches one name character: any Unicode letter or digit, or an
// underscore, so lyric names such as "はじめ" are valid.
const WordClass = `[\p{L}\p{N}_]`

var (
	validDefinition = regexp.MustCompile(`^` + WordClass + `+(?:\.+` + WordClass + `+)*$`)
	nameRun         = regexp.MustCompile(WordClass + `+`)
	pauseRun        = regexp.MustCompile(`\.+`)
)

// Kind tags a token as a name or a pause.
type Kind int

const (
	Name Kind = iota
	Pause
)

func (k Kind) String() string {
	switch k {
	case Name:
		return "NAME"
	case Pause:
		return "PAUSE"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is one run of a definition string.
type Token struct {
	Kind Kind
	Text string
	// Offset is the byte offset of the run in the definition.
	Offset int
}

// Parse validates def and splits it into alternating name and pause tokens
// in their original left-to-right order.
func Parse(def string) ([]Token, error) {
	if def == "" {
		return nil, ErrEmptyDefinition
	}
	if !validDefinition.MatchString(def) {
		return nil, fmt.Errorf("%w: %q", ErrMalformedDefinition, def)
	}

	names := collect(def, nameRun, Name)
	pauses := collect(def, pauseRun, Pause)
	if len(names) != len(pauses)+1 {
		return nil, fmt.Errorf("%w: %d names, %d pauses in %q",
			ErrTokenCountMismatch, len(names), len(pauses), def)
	}

	tokens := make([]Token, 0, len(names)+len(pauses))
	tokens = append(tokens, names...)
	tokens = append(tokens, pauses...)
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].Offset < tokens[j].Offset })

	for i, tok := range tokens {
		want := Name
		if i%2 == 1 {
			want = Pause
		}
		if tok.Kind != want {
			return nil, fmt.Errorf("%w: %s at offset %d, want %s",
				ErrMalformedDefinition, tok.Kind, tok.Offset, want)
		}
	}

	return tokens, nil
}

func collect(def string, re *regexp.Regexp, kind Kind) []Token {
	locs := re.FindAllStringIndex(def, -1)
	out := make([]Token, 0, len(locs))
	for _, loc := range locs {
		out = append(out, Token{Kind: kind, Text: def[loc[0]:loc[1]], Offset: loc[0]})
	}
	return out
}
