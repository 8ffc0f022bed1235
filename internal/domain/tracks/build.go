package tracks

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/forPelevin/visecut/internal/domain/phonemes"
	"github.com/forPelevin/visecut/internal/domain/timing"
	"github.com/forPelevin/visecut/internal/types"
)

// MinSpan is the length a zero or negative word span is widened to.
const MinSpan = 0.001

// silPlaceholder stands in for a word with no known pronunciation; it is not
// in the viseme table and so resolves to sil.
const silPlaceholder = "sil"

type Resolver interface {
	Resolve(ctx context.Context, word string) (phonemes.Sequence, error)
}

type Builder struct {
	Resolver    Resolver
	Allocator   timing.Allocator
	FrameRate   int
	StripStress bool
	// DefaultDuration sizes the tracks when the transcript has no words.
	// Zero means an empty transcript is rejected.
	DefaultDuration float64
	Log             zerolog.Logger
}

type Result struct {
	Set        *Set
	Duration   float64
	Words      int
	Unresolved []string
}

// Build resolves, allocates and rasterises every word. Track length comes from
// the latest word end.
func (b Builder) Build(ctx context.Context, words []types.Word) (Result, error) {
	spans := make([]timing.Span, len(words))
	duration := 0.0
	for i, w := range words {
		sp, err := b.span(w)
		if err != nil {
			return Result{}, err
		}
		spans[i] = sp
		duration = math.Max(duration, sp.End)
	}
	if len(words) == 0 {
		if b.DefaultDuration <= 0 {
			return Result{}, fmt.Errorf("%w: transcript has no words", ErrInvalidInput)
		}
		duration = b.DefaultDuration
	}

	set, err := New(duration, b.frameRate())
	if err != nil {
		return Result{}, err
	}
	set.StripStress = b.StripStress

	res := Result{Set: set, Duration: duration, Words: len(words)}
	for i, w := range words {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		seq, err := b.Resolver.Resolve(ctx, w.Word)
		if err != nil {
			return Result{}, fmt.Errorf("resolve phonemes: %w", err)
		}
		if len(seq) == 0 {
			b.Log.Warn().Str("word", w.Word).Msg("no phonemes found, defaulting to sil")
			res.Unresolved = append(res.Unresolved, w.Word)
			seq = phonemes.Sequence{silPlaceholder}
		}
		set.Rasterize(b.Allocator.Allocate(spans[i], seq))
	}
	return res, nil
}

func (b Builder) frameRate() int {
	if b.FrameRate == 0 {
		return DefaultFrameRate
	}
	return b.FrameRate
}

func (b Builder) span(w types.Word) (timing.Span, error) {
	for _, v := range []float64{w.Start, w.End} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return timing.Span{}, fmt.Errorf("%w: word %q has non-finite time", ErrInvalidInput, w.Word)
		}
	}
	if w.Start < 0 {
		return timing.Span{}, fmt.Errorf("%w: word %q starts at %.3f", ErrInvalidInput, w.Word, w.Start)
	}
	sp := timing.Span{Start: w.Start, End: w.End}
	if sp.End <= sp.Start {
		b.Log.Warn().Str("word", w.Word).Float64("start", w.Start).Float64("end", w.End).
			Msg("degenerate word span, widening")
		sp.End = sp.Start + MinSpan
	}
	return sp, nil
}
