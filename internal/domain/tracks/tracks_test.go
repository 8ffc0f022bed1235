package tracks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forPelevin/visecut/internal/domain/timing"
	"github.com/forPelevin/visecut/internal/domain/viseme"
)

func TestFrameCount(t *testing.T) {
	assert.Equal(t, 500, FrameCount(5.0, 100))
	assert.Equal(t, 140, FrameCount(1.4, 100))
	assert.Equal(t, 141, FrameCount(1.401, 100))
	assert.Equal(t, 1, FrameCount(0.001, 100))
	assert.Equal(t, 0, FrameCount(0, 100))
}

func TestNew(t *testing.T) {
	s, err := New(2.345, 100)
	require.NoError(t, err)
	assert.Equal(t, 235, s.Len())
	for _, c := range viseme.Categories() {
		assert.Len(t, s.Track(c), 235, c)
	}
	assert.InDelta(t, 2.35, s.Duration(), 1e-12)

	_, err = New(1, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = New(-1, 100)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestExtract_RoundTrip(t *testing.T) {
	tr := make(Track, 500)
	for i := 50; i < 80; i++ {
		tr[i] = 1
	}
	for i := 120; i < 500; i++ {
		tr[i] = 1
	}

	got := Extract(tr, 100)
	require.Len(t, got, 2)
	assert.Equal(t, 0.50, got[0].Start)
	assert.Equal(t, 0.80, got[0].End)
	assert.Equal(t, 1.20, got[1].Start)
	assert.Equal(t, 5.00, got[1].End)
	assert.Equal(t, 50, got[0].StartFrame)
	assert.Equal(t, 500, got[1].EndFrame)
}

func TestExtract_EdgeCases(t *testing.T) {
	assert.Empty(t, Extract(make(Track, 10), 100))
	assert.Empty(t, Extract(nil, 100))

	full := Track{1, 1, 1}
	got := Extract(full, 100)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].StartFrame)
	assert.Equal(t, 3, got[0].EndFrame)

	alt := Track{1, 0, 1, 0, 1}
	got = Extract(alt, 100)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].End, got[i].Start+1e-12)
		assert.Less(t, got[i-1].Start, got[i].Start)
	}
}

func TestRasterize_FrameBounds(t *testing.T) {
	s, err := New(1, 100)
	require.NoError(t, err)
	s.Rasterize([]timing.Allocation{
		{Phoneme: "K", Start: 0.10, End: 0.29},
		{Phoneme: "p", Start: 0.5, End: 0.504}, // sub-frame, dropped
		{Phoneme: "M", Start: 0.95, End: 1.5},  // clipped at track end
	})

	kk := Extract(s.Track(viseme.KK), 100)
	require.Len(t, kk, 1)
	assert.Equal(t, 10, kk[0].StartFrame)
	assert.Equal(t, 29, kk[0].EndFrame)

	pp := Extract(s.Track(viseme.PP), 100)
	require.Len(t, pp, 1)
	assert.Equal(t, 95, pp[0].StartFrame)
	assert.Equal(t, 100, pp[0].EndFrame)
}

func TestRasterize_UnknownAndStressedGoToSil(t *testing.T) {
	s, err := New(1, 100)
	require.NoError(t, err)
	s.Rasterize([]timing.Allocation{
		{Phoneme: "HH", Start: 0, End: 0.1},
		{Phoneme: "AE1", Start: 0.1, End: 0.2},
	})
	sil := Extract(s.Track(viseme.Sil), 100)
	require.Len(t, sil, 1)
	assert.Equal(t, 0, sil[0].StartFrame)
	assert.Equal(t, 20, sil[0].EndFrame)
	assert.Empty(t, Extract(s.Track(viseme.AA), 100))
}

func TestRasterize_StripStress(t *testing.T) {
	s, err := New(1, 100)
	require.NoError(t, err)
	s.StripStress = true
	s.Rasterize([]timing.Allocation{{Phoneme: "AE1", Start: 0.1, End: 0.2}})
	aa := Extract(s.Track(viseme.AA), 100)
	require.Len(t, aa, 1)
	assert.Equal(t, 10, aa[0].StartFrame)
}

func TestRasterize_Idempotent(t *testing.T) {
	allocs := timing.NewAllocator(timing.VowelWeighted).
		Allocate(timing.Span{Start: 0.2, End: 0.9}, []string{"K", "AE", "T"})

	once, err := New(1, 100)
	require.NoError(t, err)
	once.Rasterize(allocs)

	twice, err := New(1, 100)
	require.NoError(t, err)
	twice.Rasterize(allocs)
	twice.Rasterize(allocs)

	assert.Equal(t, once.Spikes(), twice.Spikes())
	for _, c := range viseme.Categories() {
		for _, v := range twice.Track(c) {
			require.True(t, v == 0 || v == 1)
		}
	}
}

func TestSpikes_TagsCategories(t *testing.T) {
	s, err := New(1, 100)
	require.NoError(t, err)
	s.Rasterize([]timing.Allocation{{Phoneme: "S", Start: 0, End: 0.5}})
	all := s.Spikes()
	assert.Len(t, all, len(viseme.Categories()))
	require.Len(t, all[viseme.SS], 1)
	assert.Equal(t, viseme.SS, all[viseme.SS][0].Viseme)
	assert.Empty(t, all[viseme.PP])
}

func TestArrays(t *testing.T) {
	s, err := New(0.5, 100)
	require.NoError(t, err)
	arr := s.Arrays()
	assert.Len(t, arr, 15)
	assert.Len(t, arr["sil"], 50)
}
