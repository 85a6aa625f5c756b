// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"

	"github.com/ik5/audmix/sample"
	"github.com/ik5/audmix/utils"
)

const (
	MicrosPerSecond = 1_000_000

	DefaultTotalBuses                  = 8
	DefaultCompressAheadSeconds        = 0.05
	DefaultCompressDecaySeconds        = 0.125
	DefaultCompressRatioMin            = 0.3
	DefaultCompressRatioMax            = 1.0
	DefaultCompressToAmplitude         = 1.0
	DefaultNormalizationCeiling        = 0.999
	DefaultNormalizationBoostThreshold = 1.0
	DefaultDSPBufferSize               = 1024
	DefaultHighpassThresholdHz         = 30
	DefaultLowpassThresholdHz          = 15000
)

// Config holds the parameters of one mixer. It is fixed for the lifetime of
// an Engine.
type Config struct {
	TotalBuses   int
	TotalSeconds float64
	OutputFormat sample.Descriptor

	CompressAheadSeconds float64
	CompressDecaySeconds float64
	CompressRatioMin     float64
	CompressRatioMax     float64
	CompressToAmplitude  float64

	// Normalization is configured but inert unless NormalizationEnabled is
	// set. Per-segment peak normalization shifts the overall level from one
	// segment to the next.
	NormalizationEnabled        bool
	NormalizationCeiling        float64
	NormalizationBoostThreshold float64

	// DSPBufferSize is the compressor cycle in frames; it must be a power of
	// two.
	DSPBufferSize int

	// Reserved for band limiting; not read by the render path.
	HighpassThresholdHz int
	LowpassThresholdHz  int

	ContentStoragePathPrefix string
	AudioBaseURL             string
	LogPrefix                string
}

// DefaultConfig returns a 16-bit stereo 48kHz configuration with the
// standard compressor settings and no duration set.
func DefaultConfig() Config {
	return Config{
		TotalBuses: DefaultTotalBuses,
		OutputFormat: sample.Descriptor{
			Channels:  2,
			FrameRate: 48000,
			BitDepth:  16,
			Encoding:  sample.Signed,
		},
		CompressAheadSeconds:        DefaultCompressAheadSeconds,
		CompressDecaySeconds:        DefaultCompressDecaySeconds,
		CompressRatioMin:            DefaultCompressRatioMin,
		CompressRatioMax:            DefaultCompressRatioMax,
		CompressToAmplitude:         DefaultCompressToAmplitude,
		NormalizationCeiling:        DefaultNormalizationCeiling,
		NormalizationBoostThreshold: DefaultNormalizationBoostThreshold,
		DSPBufferSize:               DefaultDSPBufferSize,
		HighpassThresholdHz:         DefaultHighpassThresholdHz,
		LowpassThresholdHz:          DefaultLowpassThresholdHz,
	}
}

// Validate checks the invariants the render path relies on and resolves
// the output format. Structural problems are reported as *ConfigError;
// an unsupported output layout as *sample.FormatError.
func (c Config) Validate() error {
	switch {
	case !utils.IsPowerOfTwo(c.DSPBufferSize):
		return &ConfigError{Field: "DSPBufferSize", Reason: "must be a power of two"}
	case c.OutputFormat.Channels < 1 || c.OutputFormat.Channels > 2:
		return &ConfigError{Field: "OutputFormat.Channels", Reason: "must be 1 or 2"}
	case c.OutputFormat.FrameRate <= 0:
		return &ConfigError{Field: "OutputFormat.FrameRate", Reason: "must be positive"}
	case c.TotalSeconds <= 0 || math.IsNaN(c.TotalSeconds) || math.IsInf(c.TotalSeconds, 0):
		return &ConfigError{Field: "TotalSeconds", Reason: "must be a positive number"}
	case c.TotalBuses < 1:
		return &ConfigError{Field: "TotalBuses", Reason: "must be at least 1"}
	case c.CompressRatioMin <= 0 || c.CompressRatioMin > c.CompressRatioMax:
		return &ConfigError{Field: "CompressRatioMin", Reason: "must be positive and not above CompressRatioMax"}
	case c.CompressAheadSeconds <= 0:
		return &ConfigError{Field: "CompressAheadSeconds", Reason: "must be positive"}
	case c.CompressDecaySeconds <= 0:
		return &ConfigError{Field: "CompressDecaySeconds", Reason: "must be positive"}
	case c.CompressToAmplitude <= 0:
		return &ConfigError{Field: "CompressToAmplitude", Reason: "must be positive"}
	}

	if _, err := sample.TypeOfOutput(c.OutputFormat); err != nil {
		return err
	}
	return nil
}

// TotalFrames is the length of one render in frames.
func (c Config) TotalFrames() int {
	return int(math.Floor(c.TotalSeconds * float64(c.OutputFormat.FrameRate)))
}

func (c Config) MicrosPerFrame() float64 {
	return MicrosPerSecond / float64(c.OutputFormat.FrameRate)
}

func (c Config) FramesPerMilli() int {
	return c.OutputFormat.FrameRate / 1000
}

func (c Config) CompressAheadFrames() int {
	return max(int(c.CompressAheadSeconds*float64(c.OutputFormat.FrameRate)), 1)
}

func (c Config) CompressDecayFrames() int {
	return max(int(c.CompressDecaySeconds*float64(c.OutputFormat.FrameRate)), 1)
}
