// Package config loads visecut settings from defaults, an optional YAML file,
// VISECUT_* environment variables and command-line flags, in rising order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/forPelevin/visecut/internal/domain/timing"
)

const EnvPrefix = "VISECUT"

// Config holds all run settings.
type Config struct {
	FrameRate       int     `mapstructure:"frame_rate" yaml:"frame_rate"`
	Weighting       string  `mapstructure:"weighting" yaml:"weighting"` // uniform or vowel_weighted
	MinPhonemeMs    float64 `mapstructure:"min_phoneme_ms" yaml:"min_phoneme_ms"`
	StripStress     bool    `mapstructure:"strip_stress" yaml:"strip_stress"`
	DefaultDuration float64 `mapstructure:"default_duration" yaml:"default_duration"` // seconds, used for empty transcripts
	FadeMs          int     `mapstructure:"fade_ms" yaml:"fade_ms"`
	Workers         int     `mapstructure:"workers" yaml:"workers"`

	OutDir     string `mapstructure:"out_dir" yaml:"out_dir"`
	CacheDir   string `mapstructure:"cache_dir" yaml:"cache_dir"`
	Transcript string `mapstructure:"transcript" yaml:"transcript"`
	Dictionary string `mapstructure:"dictionary" yaml:"dictionary"`

	FFmpeg  FFmpegConfig  `mapstructure:"ffmpeg" yaml:"ffmpeg"`
	Whisper WhisperConfig `mapstructure:"whisper" yaml:"whisper"`
	Export  ExportConfig  `mapstructure:"export" yaml:"export"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

type FFmpegConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type WhisperConfig struct {
	Bin      string `mapstructure:"bin" yaml:"bin"`
	Model    string `mapstructure:"model" yaml:"model"`
	Language string `mapstructure:"language" yaml:"language"`
}

// ExportConfig toggles individual output artifacts.
type ExportConfig struct {
	NPZ       bool `mapstructure:"npz" yaml:"npz"`
	XML       bool `mapstructure:"xml" yaml:"xml"`
	Audio     bool `mapstructure:"audio" yaml:"audio"`
	Subtitles bool `mapstructure:"subtitles" yaml:"subtitles"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // console or json
}

func Default() Config {
	return Config{
		FrameRate:    100,
		Weighting:    string(timing.VowelWeighted),
		MinPhonemeMs: 1,
		FadeMs:       20,
		OutDir:       "out",
		CacheDir:     ".cache",
		Dictionary:   ".cache/dict/cmudict.dict",
		FFmpeg:       FFmpegConfig{Path: "ffmpeg"},
		Whisper: WhisperConfig{
			Bin:      ".cache/bin/whisper.cpp",
			Model:    ".cache/models/ggml-base.bin",
			Language: "en",
		},
		Export: ExportConfig{NPZ: true, XML: true, Audio: true},
		Log:    LogConfig{Level: "info", Format: "console"},
	}
}

// SetDefaults registers every default with v so env variables and config
// files can override nested keys individually.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("frame_rate", d.FrameRate)
	v.SetDefault("weighting", d.Weighting)
	v.SetDefault("min_phoneme_ms", d.MinPhonemeMs)
	v.SetDefault("strip_stress", d.StripStress)
	v.SetDefault("default_duration", d.DefaultDuration)
	v.SetDefault("fade_ms", d.FadeMs)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("out_dir", d.OutDir)
	v.SetDefault("cache_dir", d.CacheDir)
	v.SetDefault("transcript", d.Transcript)
	v.SetDefault("dictionary", d.Dictionary)
	v.SetDefault("ffmpeg.path", d.FFmpeg.Path)
	v.SetDefault("whisper.bin", d.Whisper.Bin)
	v.SetDefault("whisper.model", d.Whisper.Model)
	v.SetDefault("whisper.language", d.Whisper.Language)
	v.SetDefault("export.npz", d.Export.NPZ)
	v.SetDefault("export.xml", d.Export.XML)
	v.SetDefault("export.audio", d.Export.Audio)
	v.SetDefault("export.subtitles", d.Export.Subtitles)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load reads file (or visecut.yaml from the working directory or
// ~/.visecut when file is empty) into v and decodes the merged result. A
// missing default file is fine; a missing explicit file is not.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("visecut")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".visecut"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame_rate must be > 0")
	}
	if _, err := timing.ParsePolicy(c.Weighting); err != nil {
		return err
	}
	if c.MinPhonemeMs < 0 {
		return fmt.Errorf("min_phoneme_ms must be >= 0")
	}
	if c.DefaultDuration < 0 {
		return fmt.Errorf("default_duration must be >= 0")
	}
	if c.FadeMs < 0 {
		return fmt.Errorf("fade_ms must be >= 0")
	}
	if c.Dictionary == "" {
		return fmt.Errorf("dictionary path is required")
	}
	if c.Transcript == "" && c.Whisper.Model == "" {
		return fmt.Errorf("whisper model path is required when no transcript is given")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("log format: unsupported value %q", c.Log.Format)
	}
	return nil
}

// Policy returns the parsed weighting policy; call Validate first.
func (c Config) Policy() timing.Policy {
	p, _ := timing.ParsePolicy(c.Weighting)
	return p
}
