package tracks

import "github.com/forPelevin/visecut/internal/domain/viseme"

// Spike is one maximal run of active frames, [StartFrame, EndFrame).
type Spike struct {
	Viseme     viseme.Category
	StartFrame int
	EndFrame   int
	Start      float64
	End        float64
}

func (s Spike) Duration() float64 { return s.End - s.Start }

// Extract scans track once and returns its runs of non-zero frames in order.
// A run still open at the last frame closes at len(track).
func Extract(track Track, frameRate int) []Spike {
	var out []Spike
	active := false
	start := 0
	emit := func(end int) {
		out = append(out, Spike{
			StartFrame: start,
			EndFrame:   end,
			Start:      float64(start) / float64(frameRate),
			End:        float64(end) / float64(frameRate),
		})
	}
	for i, v := range track {
		switch {
		case v != 0 && !active:
			start = i
			active = true
		case v == 0 && active:
			emit(i)
			active = false
		}
	}
	if active {
		emit(len(track))
	}
	return out
}

// Spikes extracts every category, tagging each spike with its viseme.
func (s *Set) Spikes() map[viseme.Category][]Spike {
	out := make(map[viseme.Category][]Spike, len(s.tracks))
	for _, c := range viseme.Categories() {
		sp := Extract(s.tracks[c], s.FrameRate)
		for i := range sp {
			sp[i].Viseme = c
		}
		out[c] = sp
	}
	return out
}
