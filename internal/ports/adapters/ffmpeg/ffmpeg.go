package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
)

type Adapter struct {
	ffmpeg string
}

func New(ffmpegPath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Adapter{ffmpeg: ffmpegPath}
}

// ExtractAudioMono16k writes the 16 kHz mono WAV whisper.cpp expects.
func (a *Adapter) ExtractAudioMono16k(ctx context.Context, in, outWav string) error {
	return a.run(ctx, "extract audio", extractArgs(in, outWav)...)
}

// DecodeWAV converts any input ffmpeg understands to 16-bit PCM WAV at its
// native rate and channel count.
func (a *Adapter) DecodeWAV(ctx context.Context, in, outWav string) error {
	return a.run(ctx, "decode wav", decodeArgs(in, outWav)...)
}

func (a *Adapter) run(ctx context.Context, what string, args ...string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg %s: %w\n%s", what, err, string(b))
	}
	return nil
}

func extractArgs(in, outWav string) []string {
	return []string{
		"-y",
		"-i", in,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	}
}

func decodeArgs(in, outWav string) []string {
	return []string{
		"-y",
		"-i", in,
		"-vn",
		"-c:a", "pcm_s16le",
		"-f", "wav",
		outWav,
	}
}
