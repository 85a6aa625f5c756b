// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audmix/mixer"
)

// Segment is one render window worth of picks.
type Segment struct {
	Name  string `yaml:"name"`
	Picks []Pick `yaml:"picks"`
}

// Pick places an instrument's audio in a segment. Times are relative to
// the start of the segment.
type Pick struct {
	ID            string           `yaml:"id"`
	Amplitude     float64          `yaml:"amplitude"`
	StartMicros   int64            `yaml:"start_micros"`
	StopMicros    *int64           `yaml:"stop_micros"`
	AttackMillis  int              `yaml:"attack_ms"`
	ReleaseMillis int              `yaml:"release_ms"`
	Instrument    mixer.Instrument `yaml:"instrument"`
	Audio         mixer.Audio      `yaml:"audio"`
}

// UnmarshalYAML decodes a pick over unit gains, so only gains left out of
// the file default to 1 and an explicit 0 mutes.
func (p *Pick) UnmarshalYAML(node *yaml.Node) error {
	type plain Pick
	v := plain{
		Amplitude:  1,
		Instrument: mixer.Instrument{Volume: 1},
		Audio:      mixer.Audio{Volume: 1},
	}
	if err := node.Decode(&v); err != nil {
		return err
	}
	*p = Pick(v)
	return nil
}

// Active converts the pick to what the engine mixes.
func (p Pick) Active() mixer.ActiveAudio {
	return mixer.NewActiveAudio(p.ID, p.Amplitude, p.Instrument, p.Audio,
		p.StartMicros, p.StopMicros, p.AttackMillis, p.ReleaseMillis)
}

// Actives converts every pick of the segment.
func (s Segment) Actives() []mixer.ActiveAudio {
	out := make([]mixer.ActiveAudio, len(s.Picks))
	for i, p := range s.Picks {
		out[i] = p.Active()
	}
	return out
}

type pickFile struct {
	Segments []Segment `yaml:"segments"`
}

// LoadPicks reads the segments of a pick list file. Gains left out of the
// file default to 1.
func LoadPicks(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read picks: %w", err)
	}
	return ParsePicks(data)
}

func ParsePicks(data []byte) ([]Segment, error) {
	var f pickFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	for i := range f.Segments {
		seg := &f.Segments[i]
		if seg.Name == "" {
			seg.Name = fmt.Sprintf("segment-%d", i+1)
		}
		for j := range seg.Picks {
			p := &seg.Picks[j]
			if p.ID == "" {
				p.ID = fmt.Sprintf("%s-pick-%d", seg.Name, j+1)
			}
		}
	}
	return f.Segments, nil
}
