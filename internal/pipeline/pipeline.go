package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/forPelevin/visecut/internal/config"
	"github.com/forPelevin/visecut/internal/ports"
	"github.com/forPelevin/visecut/internal/ports/adapters/cmudict"
	"github.com/forPelevin/visecut/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/visecut/internal/ports/adapters/sqlitedict"
	"github.com/forPelevin/visecut/internal/ports/adapters/transcriptfile"
	"github.com/forPelevin/visecut/internal/ports/adapters/wavfile"
	"github.com/forPelevin/visecut/internal/ports/adapters/whispercpp"
	"github.com/forPelevin/visecut/internal/types"
	"github.com/forPelevin/visecut/internal/usecase"
)

const ManifestFile = "manifest.json"

type Config struct {
	Input    string
	Settings config.Config
	Log      zerolog.Logger
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.Input); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.Settings.Transcript != "" {
		if _, err := os.Stat(c.Settings.Transcript); err != nil {
			return fmt.Errorf("stat transcript: %w", err)
		}
	}
	return c.Settings.Validate()
}

type Result struct {
	Manifest types.Manifest
	OutDir   string
}

func Run(ctx context.Context, cfg Config) (Result, error) {
	log := cfg.Log
	s := cfg.Settings

	// adapters
	var asr ports.ASR
	if s.Transcript != "" {
		asr = transcriptfile.New(s.Transcript)
	} else {
		asr = whispercpp.New(s.Whisper.Bin, s.Whisper.Model, s.Whisper.Language)
	}
	dict, closeDict, err := OpenDictionary(ctx, s.Dictionary)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = closeDict() }()

	uc := usecase.New(usecase.Deps{
		Audio: ffmpeg.New(s.FFmpeg.Path),
		ASR:   asr,
		Dict:  dict,
		Codec: wavfile.New(),
		Log:   log,
	})

	jobID := hash(cfg.Input)
	baseCache := s.CacheDir
	if baseCache == "" {
		baseCache = ".cache"
	}
	cacheDir := filepath.Join(baseCache, "runs", jobID)
	log.Debug().Msg("preparing workspace")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Result{}, err
	}
	log.Debug().Str("dir", cacheDir).Msg("cache")

	outDir := s.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runOutDir := buildRunOutDir(outDir, cfg.Input, time.Now().UTC())
	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return Result{}, err
	}
	log.Info().Str("dir", runOutDir).Msg("output run dir")

	res, err := uc.Run(ctx, usecase.Input{
		InputAudio:      cfg.Input,
		CacheDir:        cacheDir,
		OutDir:          runOutDir,
		ExtractForASR:   s.Transcript == "",
		FrameRate:       s.FrameRate,
		Policy:          s.Policy(),
		MinPhonemeMs:    s.MinPhonemeMs,
		StripStress:     s.StripStress,
		DefaultDuration: s.DefaultDuration,
		FadeMs:          s.FadeMs,
		Workers:         s.Workers,
		WriteNPZ:        s.Export.NPZ,
		WriteXML:        s.Export.XML,
		WriteAudio:      s.Export.Audio,
		WriteSubtitles:  s.Export.Subtitles,
	})
	if err != nil {
		return Result{}, err
	}

	m := res.Manifest
	m.RunID = uuid.NewString()
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(runOutDir, ManifestFile)
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return Result{}, err
	}
	log.Info().Str("run_id", m.RunID).Str("path", manifestPath).Msg("manifest written")
	return Result{Manifest: m, OutDir: runOutDir}, nil
}

// OpenDictionary picks the SQLite store for .db/.sqlite files and the
// plain-text CMU parser for anything else.
func OpenDictionary(ctx context.Context, path string) (ports.Dictionary, func() error, error) {
	if IsSQLitePath(path) {
		st, err := sqlitedict.Open(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	}
	d, err := cmudict.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return d, func() error { return nil }, nil
}

func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func buildRunOutDir(outRoot, input string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", input, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.AudioTool = (*ffmpeg.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
var _ ports.ASR = (*transcriptfile.Adapter)(nil)
var _ ports.Dictionary = (*cmudict.Dict)(nil)
var _ ports.Dictionary = (*sqlitedict.Store)(nil)
var _ ports.AudioCodec = wavfile.Codec{}
