// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMapper changes the channel count of a Source. Mapping to mono
// averages all source channels; any other target picks source channel
// c % sourceChannels, so mono material is duplicated across stereo.
type ChannelMapper struct {
	src      Source
	channels int
	tmp      []float32
}

func NewChannelMapper(src Source, channels int) (*ChannelMapper, error) {
	if channels < 1 || src.Channels() < 1 {
		return nil, ErrInvalidChannels
	}
	return &ChannelMapper{src: src, channels: channels}, nil
}

func (m *ChannelMapper) SampleRate() int { return m.src.SampleRate() }

func (m *ChannelMapper) Channels() int { return m.channels }

func (m *ChannelMapper) BufSize() int { return m.src.BufSize() }

func (m *ChannelMapper) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (m *ChannelMapper) ReadSamples(dst []float32) (int, error) {
	if len(dst)%m.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	in := m.src.Channels()
	if in == m.channels {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.channels
	if cap(m.tmp) < frames*in {
		m.tmp = make([]float32, max(frames*in, 8192))
	}
	tmp := m.tmp[:frames*in]

	n, err := m.src.ReadSamples(tmp)
	got := n / in

	switch {
	case m.channels == 1 && in == 2:
		for f := range got {
			dst[f] = (tmp[2*f] + tmp[2*f+1]) * 0.5
		}
	case m.channels == 1:
		scale := 1 / float32(in)
		for f := range got {
			var sum float32
			for _, v := range tmp[f*in : (f+1)*in] {
				sum += v
			}
			dst[f] = sum * scale
		}
	default:
		for f := range got {
			for c := range m.channels {
				dst[f*m.channels+c] = tmp[f*in+c%in]
			}
		}
	}

	return got * m.channels, err
}
