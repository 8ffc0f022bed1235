package ports

import (
	"context"

	"github.com/forPelevin/visecut/internal/audio"
	"github.com/forPelevin/visecut/internal/types"
)

type AudioTool interface {
	ExtractAudioMono16k(ctx context.Context, in, outWav string) error
	DecodeWAV(ctx context.Context, in, outWav string) error
}

type ASR interface {
	Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error)
}

// Dictionary returns every known pronunciation of a lowercase word, each a
// space-delimited phoneme string. An unknown word yields (nil, nil); errors are
// reserved for backend failures.
type Dictionary interface {
	Pronunciations(ctx context.Context, word string) ([]string, error)
}

type AudioCodec interface {
	Read(path string) (*audio.Buffer, error)
	Write(path string, buf *audio.Buffer) error
}
