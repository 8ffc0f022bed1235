// Package phonemes turns transcript words into ARPAbet phoneme sequences using
// a pronouncing dictionary.
package phonemes

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Sequence is an ordered list of phoneme symbols, possibly stress-marked
// ("AE1"). An empty Sequence means the word could not be resolved.
type Sequence []string

// Dictionary is the pronunciation source. Unknown words return (nil, nil).
type Dictionary interface {
	Pronunciations(ctx context.Context, word string) ([]string, error)
}

type Resolver struct {
	dict Dictionary
}

func NewResolver(d Dictionary) *Resolver { return &Resolver{dict: d} }

// Resolve looks up the first pronunciation of word. On a miss, words containing
// an apostrophe are split and each part looked up on its own ("that's" ->
// "that" + "s"). A word that cannot be resolved yields an empty Sequence and a
// nil error; only dictionary failures are returned as errors.
func (r *Resolver) Resolve(ctx context.Context, word string) (Sequence, error) {
	clean := Normalize(word)
	if clean != "" {
		seq, err := r.first(ctx, clean)
		if err != nil || len(seq) > 0 {
			return seq, err
		}
	}

	if !strings.ContainsAny(word, "'’") {
		return nil, nil
	}
	var out Sequence
	for _, part := range strings.FieldsFunc(word, isApostrophe) {
		part = Normalize(part)
		if part == "" {
			continue
		}
		seq, err := r.first(ctx, part)
		if err != nil {
			return nil, err
		}
		out = append(out, seq...)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (r *Resolver) first(ctx context.Context, word string) (Sequence, error) {
	prons, err := r.dict.Pronunciations(ctx, word)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", word, err)
	}
	for _, p := range prons {
		if f := strings.Fields(p); len(f) > 0 {
			return Sequence(f), nil
		}
	}
	return nil, nil
}

// Normalize lowercases w and keeps only ASCII letters. Accented letters are
// decomposed first so "Café" becomes "cafe" rather than "caf".
func Normalize(w string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(w) {
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func isApostrophe(r rune) bool { return r == '\'' || r == '’' }
