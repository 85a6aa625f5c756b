// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// maxEmptyReads bounds how many (0, nil) reads ReadFrames tolerates in a row.
const maxEmptyReads = 100

// Conform wraps src so it yields the given sample rate and channel count,
// adding a Resampler and a ChannelMapper only where needed.
func Conform(src Source, rate, channels int) (Source, error) {
	if rate <= 0 {
		return nil, ErrInvalidRate
	}
	if channels < 1 {
		return nil, ErrInvalidChannels
	}

	out := src
	if out.SampleRate() != rate {
		out = NewResampler(out, rate)
	}
	if out.Channels() != channels {
		mapped, err := NewChannelMapper(out, channels)
		if err != nil {
			return nil, err
		}
		out = mapped
	}
	return out, nil
}

// ReadFrames drains src into [frame][channel] values. bufSize is the read
// size in samples; values below one frame fall back to the source's hint.
func ReadFrames(src Source, bufSize int) ([][]float64, error) {
	channels := src.Channels()
	if channels < 1 {
		return nil, ErrInvalidChannels
	}
	if bufSize < channels {
		bufSize = max(src.BufSize(), 4096)
	}
	bufSize -= bufSize % channels

	buf := make([]float32, bufSize)
	var frames [][]float64
	empty := 0
	for {
		n, err := src.ReadSamples(buf)
		for f := range n / channels {
			frame := make([]float64, channels)
			for c := range frame {
				frame[c] = float64(buf[f*channels+c])
			}
			frames = append(frames, frame)
		}

		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		if n > 0 {
			empty = 0
		} else if empty++; empty >= maxEmptyReads {
			return nil, io.ErrNoProgress
		}
	}
}
