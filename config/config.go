// SPDX-License-Identifier: EPL-2.0

// Package config reads the YAML files that drive the audmix command: the
// render settings and the pick lists to render.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/sample"
)

type File struct {
	Mixer   MixerConfig       `yaml:"mixer"`
	Output  sample.Descriptor `yaml:"output"`
	Cache   CacheConfig       `yaml:"cache"`
	Logging LoggingConfig     `yaml:"logging"`

	// PipeBytes bounds the output pipe; zero holds one whole segment.
	PipeBytes int `yaml:"pipe_bytes"`
}

type MixerConfig struct {
	TotalBuses     int     `yaml:"total_buses"`
	SegmentSeconds float64 `yaml:"segment_seconds"`
	DSPBufferSize  int     `yaml:"dsp_buffer_size"`
	LogPrefix      string  `yaml:"log_prefix"`

	Compressor    CompressorConfig    `yaml:"compressor"`
	Normalization NormalizationConfig `yaml:"normalization"`

	HighpassHz int `yaml:"highpass_hz"`
	LowpassHz  int `yaml:"lowpass_hz"`
}

type CompressorConfig struct {
	AheadSeconds float64 `yaml:"ahead_seconds"`
	DecaySeconds float64 `yaml:"decay_seconds"`
	RatioMin     float64 `yaml:"ratio_min"`
	RatioMax     float64 `yaml:"ratio_max"`
	ToAmplitude  float64 `yaml:"to_amplitude"`
}

type NormalizationConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Ceiling        float64 `yaml:"ceiling"`
	BoostThreshold float64 `yaml:"boost_threshold"`
}

type CacheConfig struct {
	ContentPathPrefix string `yaml:"content_path_prefix"`
	AudioBaseURL      string `yaml:"audio_base_url"`
	HTTPTimeoutMs     int    `yaml:"http_timeout_ms"`
}

// HTTPTimeout is the fetch timeout for remote sources.
func (c CacheConfig) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMs) * time.Millisecond
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the settings used for anything a file leaves out.
func Default() *File {
	m := mixer.DefaultConfig()
	return &File{
		Mixer: MixerConfig{
			TotalBuses:     m.TotalBuses,
			SegmentSeconds: 10,
			DSPBufferSize:  m.DSPBufferSize,
			Compressor: CompressorConfig{
				AheadSeconds: m.CompressAheadSeconds,
				DecaySeconds: m.CompressDecaySeconds,
				RatioMin:     m.CompressRatioMin,
				RatioMax:     m.CompressRatioMax,
				ToAmplitude:  m.CompressToAmplitude,
			},
			Normalization: NormalizationConfig{
				Ceiling:        m.NormalizationCeiling,
				BoostThreshold: m.NormalizationBoostThreshold,
			},
			HighpassHz: m.HighpassThresholdHz,
			LowpassHz:  m.LowpassThresholdHz,
		},
		Output:  m.OutputFormat,
		Cache:   CacheConfig{HTTPTimeoutMs: 30_000},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML settings file over the defaults. Unknown keys are an
// error so typos do not silently fall back to defaults.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse is Load for YAML already in memory.
func Parse(data []byte) (*File, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// MixerConfig builds and validates the engine configuration.
func (f *File) MixerConfig() (mixer.Config, error) {
	m := f.Mixer
	cfg := mixer.Config{
		TotalBuses:                  m.TotalBuses,
		TotalSeconds:                m.SegmentSeconds,
		OutputFormat:                f.Output,
		CompressAheadSeconds:        m.Compressor.AheadSeconds,
		CompressDecaySeconds:        m.Compressor.DecaySeconds,
		CompressRatioMin:            m.Compressor.RatioMin,
		CompressRatioMax:            m.Compressor.RatioMax,
		CompressToAmplitude:         m.Compressor.ToAmplitude,
		NormalizationEnabled:        m.Normalization.Enabled,
		NormalizationCeiling:        m.Normalization.Ceiling,
		NormalizationBoostThreshold: m.Normalization.BoostThreshold,
		DSPBufferSize:               m.DSPBufferSize,
		HighpassThresholdHz:         m.HighpassHz,
		LowpassThresholdHz:          m.LowpassHz,
		ContentStoragePathPrefix:    f.Cache.ContentPathPrefix,
		AudioBaseURL:                f.Cache.AudioBaseURL,
		LogPrefix:                   m.LogPrefix,
	}
	if err := cfg.Validate(); err != nil {
		return mixer.Config{}, err
	}
	return cfg, nil
}

// Logger builds a slog logger writing to w at the configured level.
func (l LoggingConfig) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if l.Level != "" {
		if err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
			return nil, fmt.Errorf("logging level: %w", err)
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	if l.JSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
