// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audmix/utils"
)

// Resampler converts a Source to another sample rate with Catmull-Rom
// interpolation, keeping the channel count. When downsampling, source
// frames pass through a one-pole low-pass first to tame aliasing.
type Resampler struct {
	src      Source
	rate     int
	step     float64 // source frames per output frame
	channels int

	// window[1] is the source frame at index; window[2] the next one. The
	// outer slots are the curve's control points. Past the end of the
	// source, slots repeat the last real frame.
	window [4][]float32
	index  int
	pos    float64
	read   int
	eof    bool
	primed bool
	in     []float32

	lowpass bool
	alpha   float32
	state   []float32
}

func NewResampler(src Source, rate int) *Resampler {
	channels := max(src.Channels(), 1)
	r := &Resampler{
		src:      src,
		rate:     rate,
		step:     float64(src.SampleRate()) / float64(rate),
		channels: channels,
		in:       make([]float32, channels),
		state:    make([]float32, channels),
	}
	if r.step > 1 {
		r.lowpass = true
		r.alpha = 0.5
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.rate }

func (r *Resampler) Channels() int { return r.channels }

func (r *Resampler) BufSize() int { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// pull reads one source frame into dst. It reports false once the source
// is exhausted.
func (r *Resampler) pull(dst []float32) (bool, error) {
	if r.eof {
		return false, nil
	}

	n, err := r.src.ReadSamples(r.in)
	if err == io.EOF {
		r.eof = true
	} else if err != nil {
		return false, fmt.Errorf("%w", err)
	}
	if n < r.channels {
		r.eof = true
		return false, nil
	}

	copy(dst, r.in)
	if r.lowpass {
		if r.read == 0 {
			copy(r.state, dst)
		}
		for c := range dst {
			dst[c] = r.alpha*dst[c] + (1-r.alpha)*r.state[c]
			r.state[c] = dst[c]
		}
	}
	r.read++
	return true, nil
}

// fill loads slot k of the window, repeating slot k-1 past the end.
func (r *Resampler) fill(k int) error {
	ok, err := r.pull(r.window[k])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.window[k], r.window[k-1])
	}
	return nil
}

func (r *Resampler) prime() error {
	r.primed = true
	if _, err := r.pull(r.window[1]); err != nil {
		return err
	}
	copy(r.window[0], r.window[1])
	for k := 2; k < len(r.window); k++ {
		if err := r.fill(k); err != nil {
			return err
		}
	}
	return nil
}

// advance slides the window one source frame forward.
func (r *Resampler) advance() error {
	first := r.window[0]
	copy(r.window[:], r.window[1:])
	r.window[3] = first
	r.index++
	return r.fill(3)
}

// ReadSamples writes whole output frames into dst, whose length must be a
// multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}
		if r.eof && r.index >= r.read {
			break
		}

		frac := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CatmullRom(r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], frac)
		}
		written++
		r.pos += r.step
	}

	if written < frames {
		return written * r.channels, io.EOF
	}
	return written * r.channels, nil
}
