package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/forPelevin/visecut/internal/config"
	"github.com/forPelevin/visecut/internal/logging"
)

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"out":              "out_dir",
	"cache-dir":        "cache_dir",
	"transcript":       "transcript",
	"dictionary":       "dictionary",
	"frame-rate":       "frame_rate",
	"weighting":        "weighting",
	"min-phoneme-ms":   "min_phoneme_ms",
	"strip-stress":     "strip_stress",
	"default-duration": "default_duration",
	"fade-ms":          "fade_ms",
	"workers":          "workers",
	"ffmpeg":           "ffmpeg.path",
	"whisper-model":    "whisper.model",
	"language":         "whisper.language",
	"log-level":        "log.level",
	"log-format":       "log.format",
}

// toggleKeys are boolean flags that switch an export off (or, for
// preview-subs, on) when given.
var toggleKeys = map[string]struct {
	key   string
	value bool
}{
	"no-npz":       {"export.npz", false},
	"no-xml":       {"export.xml", false},
	"no-audio":     {"export.audio", false},
	"preview-subs": {"export.subtitles", true},
}

// loadSettings merges defaults, the config file, VISECUT_* env variables and
// the flags that were explicitly set on cmd.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	v := viper.New()
	flags := cmd.Flags()
	for name, key := range flagKeys {
		fl := flags.Lookup(name)
		if fl == nil {
			continue
		}
		if err := v.BindPFlag(key, fl); err != nil {
			return config.Config{}, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	for name, t := range toggleKeys {
		if flags.Changed(name) {
			if on, _ := flags.GetBool(name); on {
				v.Set(t.key, t.value)
			}
		}
	}

	file, _ := flags.GetString("config")
	return config.Load(v, file)
}

func newLogger(cfg config.Config, out io.Writer) (zerolog.Logger, error) {
	return logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Out: out})
}
