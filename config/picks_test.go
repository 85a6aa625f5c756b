// SPDX-License-Identifier: EPL-2.0

package config

import (
	"math"
	"testing"

	"github.com/ik5/audmix/mixer"
)

func TestLoadPicks(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "picks.yaml", `
segments:
  - name: intro
    picks:
      - id: kick
        amplitude: 0.5
        start_micros: 0
        stop_micros: 500000
        attack_ms: 5
        release_ms: 20
        instrument: {id: drums, type: Drum, volume: 0.8}
        audio: {id: a1, waveform_key: kick.wav, volume: 0.5}
      - start_micros: -250000
        instrument: {id: pad, type: Pad}
        audio: {waveform_key: pad.ogg}
  - picks: []
`)

	segs, err := LoadPicks(path)
	if err != nil {
		t.Fatalf("LoadPicks: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[1].Name != "segment-2" {
		t.Errorf("expected generated name, got %q", segs[1].Name)
	}

	actives := segs[0].Actives()
	if len(actives) != 2 {
		t.Fatalf("expected 2 actives, got %d", len(actives))
	}

	kick := actives[0]
	if math.Abs(kick.Amplitude-0.2) > 1e-12 {
		t.Errorf("expected folded amplitude 0.2, got %v", kick.Amplitude)
	}
	if kick.StopAtMicros == nil || *kick.StopAtMicros != 500000 {
		t.Errorf("unexpected stop %v", kick.StopAtMicros)
	}
	if kick.Instrument.Type != mixer.InstrumentDrum {
		t.Errorf("unexpected type %q", kick.Instrument.Type)
	}

	pad := actives[1]
	if pad.ID != "intro-pick-2" {
		t.Errorf("expected generated id, got %q", pad.ID)
	}
	if pad.Amplitude != 1 {
		t.Errorf("expected default gain 1, got %v", pad.Amplitude)
	}
	if pad.StopAtMicros != nil {
		t.Error("expected open-ended pick")
	}
	if err := pad.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParsePicks_ExplicitZeroGain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pick string
	}{
		{"pick amplitude", "{amplitude: 0, audio: {waveform_key: a.wav}}"},
		{"instrument volume", "{instrument: {volume: 0}, audio: {waveform_key: a.wav}}"},
		{"audio volume", "{audio: {waveform_key: a.wav, volume: 0}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			segs, err := ParsePicks([]byte("segments:\n  - picks:\n      - " + tt.pick + "\n"))
			if err != nil {
				t.Fatalf("ParsePicks: %v", err)
			}
			if got := segs[0].Picks[0].Active().Amplitude; got != 0 {
				t.Errorf("muted pick has amplitude %v, want 0", got)
			}
		})
	}
}

func TestParsePicks_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := ParsePicks([]byte("segments: {")); err == nil {
		t.Error("expected parse error")
	}
}
