// Package audio holds PCM sample buffers and the edit operations the slicer
// needs: millisecond slicing, silence, linear fades and additive overlay.
package audio

import (
	"errors"
	"fmt"
)

// Buffer is interleaved PCM normalised to [-1, 1].
type Buffer struct {
	SampleRate int
	Channels   int
	Data       []float32
}

var ErrFormatMismatch = errors.New("audio format mismatch")

// Silent returns a zeroed buffer lasting ms milliseconds.
func Silent(ms, sampleRate, channels int) *Buffer {
	if channels <= 0 {
		channels = 1
	}
	b := &Buffer{SampleRate: sampleRate, Channels: channels}
	b.Data = make([]float32, b.frameAt(ms)*channels)
	return b
}

// Frames is the number of sample frames (one sample per channel).
func (b *Buffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Data) / b.Channels
}

// DurationMs is the buffer length rounded down to whole milliseconds.
func (b *Buffer) DurationMs() int {
	if b.SampleRate <= 0 {
		return 0
	}
	return int(int64(b.Frames()) * 1000 / int64(b.SampleRate))
}

func (b *Buffer) frameAt(ms int) int {
	if ms <= 0 || b.SampleRate <= 0 {
		return 0
	}
	return int(int64(ms) * int64(b.SampleRate) / 1000)
}

// Slice copies [startMs, endMs). Bounds are clamped to the buffer, so a range
// past the end yields a shorter or empty slice rather than an error.
func (b *Buffer) Slice(startMs, endMs int) *Buffer {
	n := b.Frames()
	from := min(b.frameAt(startMs), n)
	to := min(b.frameAt(endMs), n)
	if to < from {
		to = from
	}
	out := &Buffer{SampleRate: b.SampleRate, Channels: b.Channels}
	out.Data = append([]float32(nil), b.Data[from*b.Channels:to*b.Channels]...)
	return out
}

// FadeIn ramps the first ms milliseconds linearly from silence. It edits b in
// place and returns it.
func (b *Buffer) FadeIn(ms int) *Buffer {
	n := min(b.frameAt(ms), b.Frames())
	for f := 0; f < n; f++ {
		g := float32(f) / float32(n)
		b.scaleFrame(f, g)
	}
	return b
}

// FadeOut ramps the last ms milliseconds linearly down to silence.
func (b *Buffer) FadeOut(ms int) *Buffer {
	total := b.Frames()
	n := min(b.frameAt(ms), total)
	for k := 0; k < n; k++ {
		f := total - n + k
		g := float32(n-1-k) / float32(n)
		b.scaleFrame(f, g)
	}
	return b
}

func (b *Buffer) scaleFrame(f int, g float32) {
	base := f * b.Channels
	for c := 0; c < b.Channels; c++ {
		b.Data[base+c] *= g
	}
}

// Overlay mixes src into b starting at positionMs. Samples are summed and
// clipped; whatever runs past the end of b is dropped.
func (b *Buffer) Overlay(src *Buffer, positionMs int) error {
	if src == nil || len(src.Data) == 0 {
		return nil
	}
	if src.SampleRate != b.SampleRate || src.Channels != b.Channels {
		return fmt.Errorf("%w: overlay %d Hz/%dch onto %d Hz/%dch",
			ErrFormatMismatch, src.SampleRate, src.Channels, b.SampleRate, b.Channels)
	}
	offset := b.frameAt(positionMs) * b.Channels
	if offset >= len(b.Data) {
		return nil
	}
	n := min(len(src.Data), len(b.Data)-offset)
	for i := 0; i < n; i++ {
		b.Data[offset+i] = clip(b.Data[offset+i] + src.Data[i])
	}
	return nil
}

func clip(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
