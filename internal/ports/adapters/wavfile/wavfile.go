// Package wavfile reads and writes PCM WAV files.
package wavfile

import (
	"errors"
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/forPelevin/visecut/internal/audio"
)

const outputBitDepth = 16

var ErrInvalidWAV = errors.New("not a valid wav file")

type Codec struct{}

func New() Codec { return Codec{} }

func (Codec) Read(path string) (*audio.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s: %w", path, ErrInvalidWAV)
	}
	ib, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read pcm %s: %w", path, err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 {
		bitDepth = ib.SourceBitDepth
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("%s: unsupported bit depth %d", path, bitDepth)
	}
	full := float32(int64(1) << (bitDepth - 1))

	buf := &audio.Buffer{
		SampleRate: ib.Format.SampleRate,
		Channels:   ib.Format.NumChannels,
		Data:       make([]float32, len(ib.Data)),
	}
	for i, v := range ib.Data {
		buf.Data[i] = float32(v) / full
	}
	return buf, nil
}

// Write stores buf as 16-bit PCM.
func (Codec) Write(path string, buf *audio.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	enc := wav.NewEncoder(f, buf.SampleRate, outputBitDepth, buf.Channels, 1)

	data := make([]int, len(buf.Data))
	for i, v := range buf.Data {
		if v > 1 {
			v = 1
		}
		if v < -1 {
			v = -1
		}
		data[i] = int(v * 32767)
	}
	ib := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: buf.Channels, SampleRate: buf.SampleRate},
		Data:           data,
		SourceBitDepth: outputBitDepth,
	}
	if err := enc.Write(ib); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("finalize wav: %w", err)
	}
	return f.Close()
}
