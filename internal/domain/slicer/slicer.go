// Package slicer cuts source audio along viseme spikes and lays each cut into
// a per-viseme buffer that is silent everywhere else.
package slicer

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/forPelevin/visecut/internal/audio"
	"github.com/forPelevin/visecut/internal/domain/tracks"
	"github.com/forPelevin/visecut/internal/domain/viseme"
)

const DefaultFadeMs = 20

type Slicer struct {
	// FadeMs is the edge fade length. Cuts shorter than twice this are left
	// unfaded.
	FadeMs int
	// Workers bounds how many categories are rendered at once; <= 0 means
	// one per CPU.
	Workers int
}

func New(fadeMs, workers int) Slicer {
	return Slicer{FadeMs: fadeMs, Workers: workers}
}

// Slice renders one buffer per category in spikes, each lasting duration
// seconds. The source is only read, so categories are processed in parallel.
func (s Slicer) Slice(
	ctx context.Context,
	spikes map[viseme.Category][]tracks.Spike,
	frameRate int,
	source *audio.Buffer,
	duration float64,
) (map[viseme.Category]*audio.Buffer, error) {
	if source == nil {
		return nil, fmt.Errorf("slice audio: no source buffer")
	}
	if frameRate <= 0 {
		return nil, fmt.Errorf("slice audio: %w: frame rate %d", tracks.ErrInvalidInput, frameRate)
	}
	totalMs := int(math.Round(duration * 1000))

	cats := make([]viseme.Category, 0, len(spikes))
	for c := range spikes {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	out := make([]*audio.Buffer, len(cats))

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range cats {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			buf, err := s.render(spikes[c], frameRate, source, totalMs)
			if err != nil {
				return fmt.Errorf("slice %s: %w", c, err)
			}
			out[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := make(map[viseme.Category]*audio.Buffer, len(cats))
	for i, c := range cats {
		res[c] = out[i]
	}
	return res, nil
}

func (s Slicer) render(spikes []tracks.Spike, frameRate int, source *audio.Buffer, totalMs int) (*audio.Buffer, error) {
	dst := audio.Silent(totalMs, source.SampleRate, source.Channels)
	for _, sp := range spikes {
		startMs := frameToMs(sp.StartFrame, frameRate)
		endMs := frameToMs(sp.EndFrame, frameRate)
		cut := source.Slice(startMs, endMs)
		if s.FadeMs > 0 && cut.DurationMs() >= 2*s.FadeMs {
			cut.FadeIn(s.FadeMs).FadeOut(s.FadeMs)
		}
		if err := dst.Overlay(cut, startMs); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

func frameToMs(frame, frameRate int) int {
	return int(int64(frame) * 1000 / int64(frameRate))
}
