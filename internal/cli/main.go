package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := newRootCommand()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "visecut <audio>",
		Short:         "Turn speech audio into per-viseme animation tracks and audio stems",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "Config file (default ./visecut.yaml or ~/.visecut/visecut.yaml)")
	pf.String("dictionary", "", "Pronunciation dictionary: CMU text file or .db built by 'dict import'")
	pf.String("cache-dir", "", "Cache directory")
	pf.Bool("strip-stress", false, "Drop stress digits (AE1 -> AE) before viseme lookup")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("log-format", "", "Log format (console or json)")

	// Visible flags
	f := root.Flags()
	f.String("out", "", "Output directory")
	f.String("transcript", "", "Word-timed transcript JSON; skips speech recognition")
	f.Int("frame-rate", 0, "Track frames per second")
	f.String("weighting", "", "Phoneme duration policy (uniform or vowel_weighted)")
	f.Int("fade-ms", 0, "Fade length applied to each audio cut")
	f.Bool("no-npz", false, "Skip the NPZ track archive")
	f.Bool("no-xml", false, "Skip the XML spike file")
	f.Bool("no-audio", false, "Skip per-viseme WAV files")
	f.Bool("preview-subs", false, "Also write an ASS subtitle preview of the spikes")

	// Hidden tuning flags (internal)
	f.Float64("min-phoneme-ms", 0, "Per-phoneme duration floor in milliseconds")
	f.Float64("default-duration", 0, "Track length in seconds for an empty transcript")
	f.Int("workers", 0, "Parallel audio slicing workers (0 = one per CPU)")
	f.String("ffmpeg", "", "ffmpeg binary")
	f.String("whisper-model", "", "whisper.cpp model path")
	f.String("language", "", "Spoken language passed to whisper.cpp")
	for _, name := range []string{"min-phoneme-ms", "default-duration", "workers", "ffmpeg", "whisper-model", "language"} {
		_ = f.MarkHidden(name)
	}

	root.AddCommand(newDictCommand(), newConfigCommand())
	return root
}
