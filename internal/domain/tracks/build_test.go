package tracks

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forPelevin/visecut/internal/domain/phonemes"
	"github.com/forPelevin/visecut/internal/domain/timing"
	"github.com/forPelevin/visecut/internal/domain/viseme"
	"github.com/forPelevin/visecut/internal/types"
)

type fakeResolver map[string]phonemes.Sequence

func (f fakeResolver) Resolve(_ context.Context, w string) (phonemes.Sequence, error) {
	return f[w], nil
}

type errResolver struct{ err error }

func (e errResolver) Resolve(context.Context, string) (phonemes.Sequence, error) {
	return nil, e.err
}

func newBuilder(r Resolver) Builder {
	return Builder{
		Resolver:  r,
		Allocator: timing.NewAllocator(timing.VowelWeighted),
		FrameRate: 100,
		Log:       zerolog.Nop(),
	}
}

func TestBuild_WordsToTracks(t *testing.T) {
	b := newBuilder(fakeResolver{"cat": {"K", "AE1", "T"}})
	b.StripStress = true

	res, err := b.Build(context.Background(), []types.Word{
		{Start: 0, End: 1, Word: "cat"},
		{Start: 1, End: 1.5, Word: "zzz"},
	})
	require.NoError(t, err)
	assert.Equal(t, 150, res.Set.Len())
	assert.Equal(t, 1.5, res.Duration)
	assert.Equal(t, []string{"zzz"}, res.Unresolved)

	sp := res.Set.Spikes()
	require.Len(t, sp[viseme.KK], 1)
	assert.Equal(t, 0, sp[viseme.KK][0].StartFrame)
	assert.Equal(t, 25, sp[viseme.KK][0].EndFrame)
	require.Len(t, sp[viseme.AA], 1)
	assert.Equal(t, 25, sp[viseme.AA][0].StartFrame)
	assert.Equal(t, 75, sp[viseme.AA][0].EndFrame)
	require.Len(t, sp[viseme.DD], 1)
	assert.Equal(t, 100, sp[viseme.DD][0].EndFrame)
	require.Len(t, sp[viseme.Sil], 1)
	assert.Equal(t, 100, sp[viseme.Sil][0].StartFrame)
	assert.Equal(t, 150, sp[viseme.Sil][0].EndFrame)
}

func TestBuild_StressedVowelsWithoutStripping(t *testing.T) {
	b := newBuilder(fakeResolver{"cat": {"K", "AE1", "T"}})
	res, err := b.Build(context.Background(), []types.Word{{Start: 0, End: 1, Word: "cat"}})
	require.NoError(t, err)
	sp := res.Set.Spikes()
	assert.Empty(t, sp[viseme.AA])
	require.Len(t, sp[viseme.Sil], 1)
	assert.Equal(t, 25, sp[viseme.Sil][0].StartFrame)
}

func TestBuild_EmptyTranscript(t *testing.T) {
	b := newBuilder(fakeResolver{})
	_, err := b.Build(context.Background(), nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	b.DefaultDuration = 2
	res, err := b.Build(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 200, res.Set.Len())
	for _, sp := range res.Set.Spikes() {
		assert.Empty(t, sp)
	}
}

func TestBuild_DegenerateSpanIsWidened(t *testing.T) {
	b := newBuilder(fakeResolver{"a": {"AH0"}})
	res, err := b.Build(context.Background(), []types.Word{{Start: 0.5, End: 0.5, Word: "a"}})
	require.NoError(t, err)
	assert.InDelta(t, 0.501, res.Duration, 1e-12)
	assert.Equal(t, 51, res.Set.Len())
}

func TestBuild_RejectsBadTimes(t *testing.T) {
	b := newBuilder(fakeResolver{})
	_, err := b.Build(context.Background(), []types.Word{{Start: -1, End: 1, Word: "x"}})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = b.Build(context.Background(), []types.Word{{Start: 0, End: math.NaN(), Word: "x"}})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuild_ResolverFailure(t *testing.T) {
	boom := errors.New("dictionary offline")
	_, err := newBuilder(errResolver{err: boom}).Build(context.Background(), []types.Word{{Start: 0, End: 1, Word: "x"}})
	require.ErrorIs(t, err, boom)
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newBuilder(fakeResolver{}).Build(ctx, []types.Word{{Start: 0, End: 1, Word: "x"}})
	require.ErrorIs(t, err, context.Canceled)
}
