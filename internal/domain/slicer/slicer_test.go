package slicer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forPelevin/visecut/internal/audio"
	"github.com/forPelevin/visecut/internal/domain/tracks"
	"github.com/forPelevin/visecut/internal/domain/viseme"
)

// constant 0.5 signal at 1 kHz so one sample is one millisecond
func source(ms int) *audio.Buffer {
	b := &audio.Buffer{SampleRate: 1000, Channels: 1, Data: make([]float32, ms)}
	for i := range b.Data {
		b.Data[i] = 0.5
	}
	return b
}

func spike(c viseme.Category, from, to int) tracks.Spike {
	return tracks.Spike{Viseme: c, StartFrame: from, EndFrame: to}
}

func TestSlice_PlacesFadedCutsOnSilence(t *testing.T) {
	spikes := map[viseme.Category][]tracks.Spike{
		viseme.AA:  {spike(viseme.AA, 10, 20)}, // 100 ms, faded
		viseme.PP:  {spike(viseme.PP, 50, 53)}, // 30 ms, too short to fade
		viseme.Sil: nil,
	}
	out, err := New(20, 2).Slice(context.Background(), spikes, 100, source(1000), 1.0)
	require.NoError(t, err)
	require.Len(t, out, 3)

	aa := out[viseme.AA]
	assert.Equal(t, 1000, aa.Frames())
	assert.Zero(t, aa.Data[99])
	assert.Zero(t, aa.Data[100], "fade-in starts from silence")
	assert.Equal(t, float32(0.5), aa.Data[150])
	assert.Zero(t, aa.Data[199], "fade-out ends in silence")
	assert.Zero(t, aa.Data[200])

	pp := out[viseme.PP]
	assert.Equal(t, float32(0.5), pp.Data[500])
	assert.Equal(t, float32(0.5), pp.Data[529])
	assert.Zero(t, pp.Data[530])

	for _, v := range out[viseme.Sil].Data {
		require.Zero(t, v)
	}
}

func TestSlice_TrailingSpikePastSourceEnd(t *testing.T) {
	spikes := map[viseme.Category][]tracks.Spike{
		viseme.SS: {spike(viseme.SS, 90, 120)},
	}
	out, err := New(20, 0).Slice(context.Background(), spikes, 100, source(1000), 1.2)
	require.NoError(t, err)
	ss := out[viseme.SS]
	assert.Equal(t, 1200, ss.Frames())
	assert.Greater(t, ss.Data[950], float32(0))
	assert.Zero(t, ss.Data[1100])
}

func TestSlice_OverlappingSpikesMixSafely(t *testing.T) {
	spikes := map[viseme.Category][]tracks.Spike{
		viseme.E: {spike(viseme.E, 10, 13), spike(viseme.E, 11, 14)},
	}
	out, err := New(20, 1).Slice(context.Background(), spikes, 100, source(500), 0.5)
	require.NoError(t, err)
	assert.Equal(t, float32(1.0), out[viseme.E].Data[120])
}

func TestSlice_Errors(t *testing.T) {
	_, err := New(20, 1).Slice(context.Background(), nil, 100, nil, 1)
	require.Error(t, err)

	_, err = New(20, 1).Slice(context.Background(), nil, 0, source(10), 1)
	require.ErrorIs(t, err, tracks.ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	spikes := map[viseme.Category][]tracks.Spike{viseme.AA: {spike(viseme.AA, 0, 1)}}
	_, err = New(20, 1).Slice(ctx, spikes, 100, source(100), 0.1)
	require.ErrorIs(t, err, context.Canceled)
}
