// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/sample"
)

// pcmReader is the part of go-mp3's Decoder the source needs.
type pcmReader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// go-mp3 always produces 16-bit little-endian stereo.
const (
	channels = 2
	width    = 2
)

type source struct {
	dec     pcmReader
	rate    int
	buf     []byte
	pending []byte // odd trailing byte of the previous read
}

func (s *source) SampleRate() int { return s.rate }

func (s *source) Channels() int { return channels }

func (s *source) Close() error { return nil }

func (s *source) BufSize() int { return cap(s.buf) / width }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * width
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	held := copy(s.buf, s.pending)
	s.pending = s.pending[:0]

	n, err := s.dec.Read(s.buf[held:])
	n += held
	samples := n / width
	if n%width != 0 {
		s.pending = append(s.pending, s.buf[n-1])
	}

	for i := range samples {
		v, derr := sample.Decode(s.buf[i*width:], sample.S16LE)
		if derr != nil {
			return i, derr
		}
		dst[i] = float32(v)
	}

	if samples == 0 && err == nil {
		return 0, nil
	}
	return samples, err
}

// Decoder reads MPEG-1/2 layer III through github.com/hajimehoshi/go-mp3.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:  dec,
		rate: dec.SampleRate(),
		buf:  make([]byte, 8192),
	}, nil
}
