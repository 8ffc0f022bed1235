package types

import "strings"

type Transcript struct {
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

type Word struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

// Words flattens all segments into timeline order. Words whose text is blank
// after trimming are dropped.
func (t Transcript) Words() []Word {
	var out []Word
	for _, s := range t.Segments {
		for _, w := range s.Words {
			text := strings.TrimSpace(w.Word)
			if text == "" {
				continue
			}
			out = append(out, Word{Start: w.Start, End: w.End, Word: text})
		}
	}
	return out
}

type Manifest struct {
	RunID      string          `json:"run_id"`
	Input      string          `json:"input"`
	FrameRate  int             `json:"frame_rate"`
	Weighting  string          `json:"weighting"`
	Duration   float64         `json:"duration_sec"`
	Frames     int             `json:"frames"`
	Words      int             `json:"words"`
	Unresolved []string        `json:"unresolved,omitempty"`
	Tracks     string          `json:"tracks,omitempty"`
	XML        string          `json:"xml,omitempty"`
	Subtitles  string          `json:"subtitles,omitempty"`
	Visemes    []ManifestTrack `json:"visemes"`
}

type ManifestTrack struct {
	Name      string  `json:"name"`
	Spikes    int     `json:"spikes"`
	ActiveSec float64 `json:"active_sec"`
	Audio     string  `json:"audio,omitempty"`
}
