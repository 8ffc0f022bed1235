// Package timing spreads a word's time span across its phonemes.
package timing

import (
	"fmt"
	"strings"

	"github.com/forPelevin/visecut/internal/domain/viseme"
)

// Policy selects how phonemes are weighted within a word.
type Policy string

const (
	// Uniform gives every phoneme the same share.
	Uniform Policy = "uniform"
	// VowelWeighted gives vowel nuclei twice the share of consonants.
	VowelWeighted Policy = "vowel_weighted"
)

const (
	DefaultMinDuration = 0.001
	vowelWeight        = 2.0
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case Uniform, VowelWeighted:
		return p, nil
	case "":
		return VowelWeighted, nil
	default:
		return "", fmt.Errorf("unknown weighting policy %q (want %s or %s)", s, Uniform, VowelWeighted)
	}
}

// Span is a closed-open interval in seconds.
type Span struct {
	Start float64
	End   float64
}

func (s Span) Duration() float64 { return s.End - s.Start }

// Allocation is the slot assigned to one phoneme.
type Allocation struct {
	Phoneme string
	Start   float64
	End     float64
}

func (a Allocation) Duration() float64 { return a.End - a.Start }

type Allocator struct {
	Policy Policy
	// MinDuration is the per-phoneme floor in seconds applied before the
	// result is normalised back to the word span.
	MinDuration float64
}

func NewAllocator(p Policy) Allocator {
	return Allocator{Policy: p, MinDuration: DefaultMinDuration}
}

// Allocate splits span across phonemes in order. The slots are contiguous,
// start at span.Start and end exactly at span.End. An empty sequence or an
// empty span allocates nothing.
func (a Allocator) Allocate(span Span, phonemes []string) []Allocation {
	total := span.Duration()
	if len(phonemes) == 0 || !(total > 0) {
		return nil
	}

	weights := make([]float64, len(phonemes))
	var weightSum float64
	for i, p := range phonemes {
		weights[i] = a.weight(p)
		weightSum += weights[i]
	}
	if weightSum <= 0 {
		return nil
	}

	durs := make([]float64, len(phonemes))
	var sum float64
	for i, w := range weights {
		d := total * w / weightSum
		if d < a.MinDuration {
			d = a.MinDuration
		}
		durs[i] = d
		sum += d
	}

	// Normalise in both directions: the floor can push the sum over the
	// span and division residue can leave it marginally under.
	scale := total / sum
	out := make([]Allocation, len(phonemes))
	cur := span.Start
	for i, p := range phonemes {
		end := cur + durs[i]*scale
		if i == len(phonemes)-1 || end > span.End {
			end = span.End
		}
		out[i] = Allocation{Phoneme: p, Start: cur, End: end}
		cur = end
	}
	return out
}

func (a Allocator) weight(p string) float64 {
	if a.Policy == Uniform {
		return 1
	}
	if viseme.IsVowel(p) {
		return vowelWeight
	}
	return 1
}
