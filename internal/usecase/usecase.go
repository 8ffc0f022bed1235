package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/forPelevin/visecut/internal/audio"
	"github.com/forPelevin/visecut/internal/domain/phonemes"
	"github.com/forPelevin/visecut/internal/domain/slicer"
	"github.com/forPelevin/visecut/internal/domain/subtitles"
	"github.com/forPelevin/visecut/internal/domain/timing"
	"github.com/forPelevin/visecut/internal/domain/tracks"
	"github.com/forPelevin/visecut/internal/domain/viseme"
	"github.com/forPelevin/visecut/internal/export"
	"github.com/forPelevin/visecut/internal/ports"
	"github.com/forPelevin/visecut/internal/types"
)

const (
	TracksFile    = "viseme_tracks.npz"
	XMLFile       = "viseme_tracks.xml"
	SubtitlesFile = "visemes.ass"
	AudioDir      = "audio"
)

type Deps struct {
	Audio ports.AudioTool
	ASR   ports.ASR
	Dict  ports.Dictionary
	Codec ports.AudioCodec
	Log   zerolog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	InputAudio string
	CacheDir   string
	OutDir     string
	// ExtractForASR produces the 16 kHz mono WAV the recogniser reads. It
	// is off when the transcript comes from a file.
	ExtractForASR bool

	FrameRate       int
	Policy          timing.Policy
	MinPhonemeMs    float64
	StripStress     bool
	DefaultDuration float64
	FadeMs          int
	Workers         int

	WriteNPZ       bool
	WriteXML       bool
	WriteAudio     bool
	WriteSubtitles bool
}

type Result struct {
	Manifest types.Manifest
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	log := u.d.Log

	asrWav := ""
	if in.ExtractForASR {
		asrWav = filepath.Join(in.CacheDir, "audio.wav")
		log.Info().Str("wav", asrWav).Msg("extracting audio for transcription")
		if err := u.d.Audio.ExtractAudioMono16k(ctx, in.InputAudio, asrWav); err != nil {
			return Result{}, err
		}
	}

	log.Info().Msg("transcribing")
	tr, err := u.d.ASR.Transcribe(ctx, asrWav, in.CacheDir)
	if err != nil {
		return Result{}, err
	}
	words := tr.Words()
	log.Info().Int("words", len(words)).Msg("transcript ready")

	alloc := timing.NewAllocator(in.Policy)
	alloc.MinDuration = in.MinPhonemeMs / 1000
	b := tracks.Builder{
		Resolver:        phonemes.NewResolver(u.d.Dict),
		Allocator:       alloc,
		FrameRate:       in.FrameRate,
		StripStress:     in.StripStress,
		DefaultDuration: in.DefaultDuration,
		Log:             log,
	}
	built, err := b.Build(ctx, words)
	if err != nil {
		return Result{}, fmt.Errorf("build tracks: %w", err)
	}
	set := built.Set
	spikes := set.Spikes()

	m := types.Manifest{
		Input:      in.InputAudio,
		FrameRate:  set.FrameRate,
		Weighting:  string(in.Policy),
		Duration:   built.Duration,
		Frames:     set.Len(),
		Words:      built.Words,
		Unresolved: built.Unresolved,
	}

	if in.WriteNPZ {
		if err := writeTo(filepath.Join(in.OutDir, TracksFile), func(w io.Writer) error {
			return export.WriteNPZ(w, set)
		}); err != nil {
			return Result{}, err
		}
		m.Tracks = TracksFile
		log.Info().Str("file", TracksFile).Msg("saved viseme tracks")
	}
	if in.WriteXML {
		if err := writeTo(filepath.Join(in.OutDir, XMLFile), func(w io.Writer) error {
			return export.WriteXML(w, set.FrameRate, spikes)
		}); err != nil {
			return Result{}, err
		}
		m.XML = XMLFile
		log.Info().Str("file", XMLFile).Msg("saved viseme xml")
	}
	if in.WriteSubtitles {
		ass := subtitles.RenderVisemeASS(spikes, false)
		if err := writeFile(filepath.Join(in.OutDir, SubtitlesFile), []byte(ass)); err != nil {
			return Result{}, err
		}
		m.Subtitles = SubtitlesFile
	}

	audioFiles := map[viseme.Category]string{}
	if in.WriteAudio {
		audioFiles, err = u.sliceAudio(ctx, in, spikes, set.FrameRate, built.Duration)
		if err != nil {
			return Result{}, err
		}
	}

	for _, c := range viseme.Categories() {
		mt := types.ManifestTrack{Name: string(c), Spikes: len(spikes[c]), Audio: audioFiles[c]}
		for _, sp := range spikes[c] {
			mt.ActiveSec += sp.Duration()
		}
		m.Visemes = append(m.Visemes, mt)
	}
	return Result{Manifest: m}, nil
}

func (u Usecase) sliceAudio(
	ctx context.Context,
	in Input,
	spikes map[viseme.Category][]tracks.Spike,
	frameRate int,
	duration float64,
) (map[viseme.Category]string, error) {
	log := u.d.Log
	src, err := u.loadSource(ctx, in)
	if err != nil {
		return nil, err
	}

	log.Info().Int("sample_rate", src.SampleRate).Int("channels", src.Channels).Msg("splitting audio by viseme")
	bufs, err := slicer.New(in.FadeMs, in.Workers).Slice(ctx, spikes, frameRate, src, duration)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(in.OutDir, AudioDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	files := make(map[viseme.Category]string, len(bufs))
	for _, c := range viseme.Categories() {
		buf, ok := bufs[c]
		if !ok {
			continue
		}
		name := string(c) + ".wav"
		if err := u.d.Codec.Write(filepath.Join(dir, name), buf); err != nil {
			return nil, err
		}
		files[c] = filepath.ToSlash(filepath.Join(AudioDir, name))
	}
	log.Info().Int("files", len(files)).Msg("saved viseme audio")
	return files, nil
}

// loadSource reads WAV input directly and sends anything else through ffmpeg
// first.
func (u Usecase) loadSource(ctx context.Context, in Input) (*audio.Buffer, error) {
	path := in.InputAudio
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		path = filepath.Join(in.CacheDir, "source.wav")
		if err := u.d.Audio.DecodeWAV(ctx, in.InputAudio, path); err != nil {
			return nil, err
		}
	}
	return u.d.Codec.Read(path)
}

func writeTo(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func writeFile(path string, b []byte) error {
	return os.WriteFile(path, b, 0o644)
}
