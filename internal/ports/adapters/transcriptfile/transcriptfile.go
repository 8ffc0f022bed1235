// Package transcriptfile serves a transcript that was produced ahead of time,
// so runs can skip speech recognition entirely.
package transcriptfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/forPelevin/visecut/internal/types"
)

type Adapter struct {
	path string
}

func New(path string) *Adapter { return &Adapter{path: path} }

// Transcribe ignores the audio and returns the file contents. Both the
// whisper.cpp segment layout and a flat array of words are accepted.
func (a *Adapter) Transcribe(_ context.Context, _, _ string) (types.Transcript, error) {
	b, err := os.ReadFile(a.path)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("read transcript: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (types.Transcript, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var words []types.Word
		if err := json.Unmarshal(b, &words); err != nil {
			return types.Transcript{}, fmt.Errorf("parse transcript words: %w", err)
		}
		seg := types.Segment{Words: words}
		if len(words) > 0 {
			seg.Start = words[0].Start
			seg.End = words[len(words)-1].End
		}
		return types.Transcript{Segments: []types.Segment{seg}}, nil
	}

	var tr types.Transcript
	if err := json.Unmarshal(b, &tr); err != nil {
		return types.Transcript{}, fmt.Errorf("parse transcript: %w", err)
	}
	return tr, nil
}
