// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds fakes shared by the tests of the audio, cache and
// mixer packages.
package audiotest

import (
	"io"
	"math"
)

// Source is a generated audio.Source. It satisfies the interface
// structurally so that audio's own tests can use it.
type Source struct {
	rate     int
	channels int
	frames   int
	pos      int
	wave     func(frame, channel int) float32

	// Err, when set, is returned instead of io.EOF at the end of the stream.
	Err    error
	closed bool
}

// NewSource generates frames frames of wave at rate.
func NewSource(rate, channels, frames int, wave func(frame, channel int) float32) *Source {
	return &Source{rate: rate, channels: channels, frames: frames, wave: wave}
}

func NewSilentSource(rate, channels, frames int) *Source {
	return NewConstantSource(rate, channels, frames, 0)
}

func NewConstantSource(rate, channels, frames int, value float32) *Source {
	return NewSource(rate, channels, frames, func(int, int) float32 { return value })
}

// NewSineSource plays a sine of freq Hz on every channel.
func NewSineSource(rate, channels, frames int, freq float64) *Source {
	return NewSource(rate, channels, frames, func(frame, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * freq * float64(frame) / float64(rate)))
	})
}

// NewRampSource counts frames, value frame/frames on every channel.
func NewRampSource(rate, channels, frames int) *Source {
	return NewSource(rate, channels, frames, func(frame, _ int) float32 {
		return float32(frame) / float32(frames)
	})
}

func (s *Source) SampleRate() int { return s.rate }

func (s *Source) Channels() int { return s.channels }

func (s *Source) BufSize() int { return 4096 }

func (s *Source) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Source) Closed() bool { return s.closed }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	end := io.EOF
	if s.Err != nil {
		end = s.Err
	}
	if s.pos >= s.frames {
		return 0, end
	}

	n := min(len(dst)/s.channels, s.frames-s.pos)
	for f := range n {
		for c := range s.channels {
			dst[f*s.channels+c] = s.wave(s.pos+f, c)
		}
	}
	s.pos += n

	if s.pos >= s.frames {
		return n * s.channels, end
	}
	return n * s.channels, nil
}
