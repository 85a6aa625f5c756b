// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"

	"github.com/ik5/audmix/utils"
)

// CompressionGrain is the frame stride used when scanning the lookahead
// window for its peak.
const CompressionGrain = 20

// Compressor is a lookahead-attack compressor that pulls a buffer towards
// a target amplitude.
//
// The target ratio is only recomputed once per DSP cycle, but the applied
// ratio moves every frame through two nested smoothers (rate, then rate of
// rate) so gain changes have inertia and stay inaudible. Ratio and velocity
// carry over from one Apply to the next: the end of one render seeds the
// beginning of the next.
type Compressor struct {
	ratioMin    float64
	ratioMax    float64
	toAmplitude float64
	aheadFrames int
	decayFrames int
	cycle       int

	ratio    float64
	velocity float64
	seeded   bool
}

// NewCompressor builds a compressor from a validated config.
func NewCompressor(cfg Config) *Compressor {
	return &Compressor{
		ratioMin:    cfg.CompressRatioMin,
		ratioMax:    cfg.CompressRatioMax,
		toAmplitude: cfg.CompressToAmplitude,
		aheadFrames: cfg.CompressAheadFrames(),
		decayFrames: cfg.CompressDecayFrames(),
		cycle:       cfg.DSPBufferSize,
	}
}

// Ratio returns the multiplier applied to the most recent frame.
func (c *Compressor) Ratio() float64 { return c.ratio }

// Velocity returns the current per-frame rate of change of the ratio.
func (c *Compressor) Velocity() float64 { return c.velocity }

// Seeded reports whether the compressor has processed any audio yet.
func (c *Compressor) Seeded() bool { return c.seeded }

// Apply compresses buf ([frame][channel]) in place.
func (c *Compressor) Apply(buf [][]float64) {
	if len(buf) == 0 {
		return
	}
	if !c.seeded {
		c.ratio = c.target(buf, 0)
		c.velocity = 0
		c.seeded = true
	}

	target := c.ratio
	decay := float64(c.decayFrames)
	cycle := float64(c.cycle)
	for i := range buf {
		if i%c.cycle == 0 {
			target = c.target(buf, i)
		}

		accel := (target - c.ratio) / decay
		c.velocity += (accel - c.velocity) / cycle
		c.ratio += c.velocity
		if c.ratio < c.ratioMin || c.ratio > c.ratioMax {
			c.ratio = utils.Limit(c.ratioMin, c.ratioMax, c.ratio)
			c.velocity = 0
		}

		for k := range buf[i] {
			buf[i][k] *= c.ratio
		}
	}
}

// target computes the ratio that would bring the window starting at frame
// from to the target amplitude. A silent window asks for the maximum ratio.
func (c *Compressor) target(buf [][]float64, from int) float64 {
	peak := utils.MaxAbs(buf, from, from+c.aheadFrames, CompressionGrain)
	if peak == 0 || math.IsNaN(peak) {
		return c.ratioMax
	}
	return utils.Limit(c.ratioMin, c.ratioMax, c.toAmplitude/peak)
}
