// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"math"
)

// InstrumentType groups instruments onto a shared bus, e.g. "Drum" or "Pad".
type InstrumentType string

const (
	InstrumentBackground InstrumentType = "Background"
	InstrumentBass       InstrumentType = "Bass"
	InstrumentDrum       InstrumentType = "Drum"
	InstrumentHook       InstrumentType = "Hook"
	InstrumentPad        InstrumentType = "Pad"
	InstrumentPercussion InstrumentType = "Percussion"
	InstrumentStab       InstrumentType = "Stab"
	InstrumentSticky     InstrumentType = "Sticky"
	InstrumentStripe     InstrumentType = "Stripe"
	InstrumentTransition InstrumentType = "Transition"
)

type Instrument struct {
	ID     string         `yaml:"id"`
	Type   InstrumentType `yaml:"type"`
	Volume float64        `yaml:"volume"`
}

// Audio is one source waveform of an instrument.
type Audio struct {
	ID          string  `yaml:"id"`
	WaveformKey string  `yaml:"waveform_key"`
	Volume      float64 `yaml:"volume"`
}

// ActiveAudio is one scheduled placement of an instrument's audio within
// the render window. Times are in microseconds relative to the start of the
// window and may fall outside of it.
type ActiveAudio struct {
	ID         string
	Instrument Instrument
	Audio      Audio

	StartAtMicros int64
	// StopAtMicros is nil when the audio plays until its source runs out.
	StopAtMicros *int64

	// Amplitude is the product of pick, instrument and audio gain.
	Amplitude float64

	AttackMillis  int
	ReleaseMillis int
}

// NewActiveAudio builds the placement of a pick, folding the instrument and
// audio volume into the pick amplitude.
func NewActiveAudio(pickID string, pickAmplitude float64, instrument Instrument, audio Audio, startAtMicros int64, stopAtMicros *int64, attackMillis, releaseMillis int) ActiveAudio {
	return ActiveAudio{
		ID:            pickID,
		Instrument:    instrument,
		Audio:         audio,
		StartAtMicros: startAtMicros,
		StopAtMicros:  stopAtMicros,
		Amplitude:     pickAmplitude * instrument.Volume * audio.Volume,
		AttackMillis:  attackMillis,
		ReleaseMillis: releaseMillis,
	}
}

func (a ActiveAudio) Validate() error {
	switch {
	case a.Amplitude < 0 || math.IsNaN(a.Amplitude) || math.IsInf(a.Amplitude, 0):
		return fmt.Errorf("%w: amplitude %v is not a finite non-negative number", ErrInvalidActive, a.Amplitude)
	case a.StopAtMicros != nil && *a.StopAtMicros < a.StartAtMicros:
		return fmt.Errorf("%w: stop %d before start %d", ErrInvalidActive, *a.StopAtMicros, a.StartAtMicros)
	case a.AttackMillis < 0 || a.ReleaseMillis < 0:
		return fmt.Errorf("%w: negative attack or release", ErrInvalidActive)
	}
	return nil
}

// Micros is a helper for optional stop times.
func Micros(v int64) *int64 { return &v }
