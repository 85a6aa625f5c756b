// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"testing"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/audiotest"
)

func TestChannelMapper(t *testing.T) {
	t.Parallel()

	// Channel c of every frame carries (c+1)/10.
	wave := func(_, c int) float32 { return float32(c+1) / 10 }

	tests := []struct {
		name string
		in   int
		out  int
		want []float32
	}{
		{name: "stereo to mono", in: 2, out: 1, want: []float32{0.15}},
		{name: "quad to mono", in: 4, out: 1, want: []float32{0.25}},
		{name: "mono to stereo", in: 1, out: 2, want: []float32{0.1, 0.1}},
		{name: "stereo passthrough", in: 2, out: 2, want: []float32{0.1, 0.2}},
		{name: "three to stereo", in: 3, out: 2, want: []float32{0.1, 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := audio.NewChannelMapper(audiotest.NewSource(8000, tt.in, 5, wave), tt.out)
			if err != nil {
				t.Fatalf("NewChannelMapper() error = %v", err)
			}
			if m.Channels() != tt.out || m.SampleRate() != 8000 {
				t.Errorf("layout = %d ch %d Hz", m.Channels(), m.SampleRate())
			}

			got := drain(t, m, 4*tt.out)
			if len(got) != 5*tt.out {
				t.Fatalf("got %d samples, want %d", len(got), 5*tt.out)
			}
			for i, v := range got {
				want := tt.want[i%tt.out]
				if d := v - want; d > 1e-6 || d < -1e-6 {
					t.Fatalf("sample %d = %v, want %v", i, v, want)
				}
			}
		})
	}
}

func TestChannelMapper_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := audio.NewChannelMapper(audiotest.NewSilentSource(8000, 2, 1), 0); !errors.Is(err, audio.ErrInvalidChannels) {
		t.Errorf("NewChannelMapper(0) error = %v, want ErrInvalidChannels", err)
	}

	m, err := audio.NewChannelMapper(audiotest.NewSilentSource(8000, 1, 1), 2)
	if err != nil {
		t.Fatalf("NewChannelMapper() error = %v", err)
	}
	if _, err := m.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples(3) error = %v, want ErrInvalidDstSize", err)
	}
}
