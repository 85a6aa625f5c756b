// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/sample"
)

// WAVE format tags.
const (
	formatPCM        = 1
	formatFloat      = 3
	formatExtensible = 0xfffe
)

// source streams the data chunk of a WAV file through the sample codec.
type source struct {
	r        io.Reader
	format   sample.Format
	rate     int
	channels int
	buf      []byte
}

func (s *source) SampleRate() int { return s.rate }

func (s *source) Channels() int { return s.channels }

func (s *source) Close() error { return nil }

func (s *source) BufSize() int { return len(s.buf) / s.format.BytesPerSample() }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	width := s.format.BytesPerSample()
	if len(s.buf) < len(dst)*width {
		s.buf = make([]byte, len(dst)*width)
	}

	n, err := io.ReadFull(s.r, s.buf[:len(dst)*width])
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		err = io.EOF
	case err != nil && !errors.Is(err, io.EOF):
		return 0, fmt.Errorf("%w", err)
	}

	samples := n / width
	for i := range samples {
		v, derr := sample.Decode(s.buf[i*width:], s.format)
		if derr != nil {
			return i, derr
		}
		dst[i] = float32(v)
	}

	if samples == 0 && err != nil {
		return 0, io.EOF
	}
	return samples, err
}

// Decoder reads PCM and IEEE float WAV files of any depth the sample codec
// supports. 8-bit data is unsigned, as WAV defines it.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}
	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	enc := sample.Signed
	switch dec.WavAudioFormat {
	case formatFloat:
		enc = sample.Float
	case formatPCM, formatExtensible:
		if dec.BitDepth == 8 {
			enc = sample.Unsigned
		}
	default:
		return nil, fmt.Errorf("%w: format tag %#x", ErrUnsupportedEncoding, dec.WavAudioFormat)
	}

	format, err := sample.TypeOfInput(sample.Descriptor{
		Channels:  int(dec.NumChans),
		FrameRate: int(dec.SampleRate),
		BitDepth:  int(dec.BitDepth),
		Encoding:  enc,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedEncoding, err)
	}

	return &source{
		r:        io.LimitReader(dec.PCMChunk, dec.PCMLen()),
		format:   format,
		rate:     int(dec.SampleRate),
		channels: int(dec.NumChans),
		buf:      make([]byte, 4096*format.BytesPerSample()),
	}, nil
}
