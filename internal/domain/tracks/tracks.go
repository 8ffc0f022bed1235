// Package tracks rasterises phoneme allocations onto fixed-rate viseme tracks
// and recovers contiguous activation spikes from them.
package tracks

import (
	"errors"
	"fmt"
	"math"

	"github.com/forPelevin/visecut/internal/domain/timing"
	"github.com/forPelevin/visecut/internal/domain/viseme"
)

const DefaultFrameRate = 100

// ErrInvalidInput reports input the tracks cannot be sized or filled from.
var ErrInvalidInput = errors.New("invalid input")

// frameEps absorbs binary representation error when seconds are turned into
// frame indices, so 0.29 s at 100 Hz is frame 29 and not 28.
const frameEps = 1e-9

// Track is one activation sample per frame, each 0 or 1.
type Track []float32

// Set holds one equally long track per category, including sil.
type Set struct {
	FrameRate int
	// StripStress drops stress digits before the table lookup, so "AE1"
	// lands on aa instead of sil.
	StripStress bool

	length int
	tracks map[viseme.Category]Track
}

// FrameCount is ceil(duration * frameRate).
func FrameCount(duration float64, frameRate int) int {
	n := math.Ceil(duration*float64(frameRate) - frameEps)
	if n < 0 {
		return 0
	}
	return int(n)
}

// New allocates zeroed tracks covering duration seconds.
func New(duration float64, frameRate int) (*Set, error) {
	if frameRate <= 0 {
		return nil, fmt.Errorf("%w: frame rate %d", ErrInvalidInput, frameRate)
	}
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration < 0 {
		return nil, fmt.Errorf("%w: duration %v", ErrInvalidInput, duration)
	}
	s := &Set{
		FrameRate: frameRate,
		length:    FrameCount(duration, frameRate),
		tracks:    make(map[viseme.Category]Track),
	}
	for _, c := range viseme.Categories() {
		s.tracks[c] = make(Track, s.length)
	}
	return s, nil
}

func (s *Set) Len() int { return s.length }

// Duration is the covered time in seconds, len/frameRate.
func (s *Set) Duration() float64 { return float64(s.length) / float64(s.FrameRate) }

// Track returns the live track for c; callers must not resize it.
func (s *Set) Track(c viseme.Category) Track { return s.tracks[c] }

func (s *Set) frame(t float64) int {
	return int(math.Floor(t*float64(s.FrameRate) + frameEps))
}

// Rasterize marks frames [floor(start*fr), floor(end*fr)) of each
// allocation's category as active. Sub-frame slots that round to an empty
// range are skipped. Writes set, never accumulate.
func (s *Set) Rasterize(allocs []timing.Allocation) {
	for _, a := range allocs {
		from := max(s.frame(a.Start), 0)
		to := min(s.frame(a.End), s.length)
		if to <= from {
			continue
		}
		ph := a.Phoneme
		if s.StripStress {
			ph = viseme.StripStress(ph)
		}
		tr := s.tracks[viseme.Lookup(ph)]
		for i := from; i < to; i++ {
			tr[i] = 1.0
		}
	}
}

// Arrays exposes the tracks keyed by category name for serialisation.
func (s *Set) Arrays() map[string][]float32 {
	out := make(map[string][]float32, len(s.tracks))
	for c, tr := range s.tracks {
		out[string(c)] = tr
	}
	return out
}
