//go:build integration

package itest

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/visecut/internal/config"
	"github.com/forPelevin/visecut/internal/pipeline"
	"github.com/forPelevin/visecut/internal/types"
)

// TestE2E decodes a compressed input through ffmpeg and checks every stem
// matches the track length.
func TestE2E(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	testdata := filepath.Join(repoRoot, "internal", "itest", "testdata")

	tmp := t.TempDir()
	in := filepath.Join(tmp, "input.mp3")
	ff := exec.Command("ffmpeg",
		"-y",
		"-f", "lavfi",
		"-i", "sine=frequency=220:duration=2",
		"-ac", "1",
		"-ar", "22050",
		in,
	)
	if b, err := ff.CombinedOutput(); err != nil {
		t.Fatalf("ffmpeg fixture failed: %v\n%s", err, string(b))
	}

	s := config.Default()
	s.OutDir = filepath.Join(tmp, "out")
	s.CacheDir = filepath.Join(tmp, "cache")
	s.Dictionary = filepath.Join(testdata, "mini.dict")
	s.Transcript = filepath.Join(testdata, "words.json")
	s.StripStress = true
	s.Export.Subtitles = true

	cfg := pipeline.Config{Input: in, Settings: s, Log: zerolog.New(zerolog.NewTestWriter(t))}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(res.OutDir, pipeline.ManifestFile))
	if err != nil {
		t.Fatalf("missing manifest: %v", err)
	}
	var m types.Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if m.Frames != 150 {
		t.Fatalf("expected 150 frames, got %d", m.Frames)
	}
	if len(m.Unresolved) != 0 {
		t.Fatalf("unexpected unresolved words: %v", m.Unresolved)
	}

	for _, v := range m.Visemes {
		if v.Audio == "" {
			t.Fatalf("viseme %s has no audio", v.Name)
		}
		sec, err := probeDurationSeconds(filepath.Join(res.OutDir, v.Audio))
		if err != nil {
			t.Fatalf("probe %s: %v", v.Audio, err)
		}
		if math.Abs(sec-1.5) > 0.01 {
			t.Fatalf("%s: expected 1.5s, got %.3f", v.Audio, sec)
		}
	}
}

func TestE2E_CLIDictImport(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	db := filepath.Join(t.TempDir(), "dict.db")

	res := runCLI(t, repoRoot, []string{"dict", "import", filepath.Join(repoRoot, "internal", "itest", "testdata", "mini.dict"), "--db", db}, nil)
	if res.exitCode != 0 {
		t.Fatalf("dict import failed:\n%s", res.output)
	}
	res = runCLI(t, repoRoot, []string{"dict", "lookup", "--dictionary", db, "--strip-stress", "move"}, nil)
	if res.exitCode != 0 {
		t.Fatalf("dict lookup failed:\n%s", res.output)
	}
	for _, want := range []string{"M UW1 V", "pp u ff"} {
		if !containsLine(res.output, want) {
			t.Fatalf("expected %q in output:\n%s", want, res.output)
		}
	}
}
