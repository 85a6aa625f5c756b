// SPDX-License-Identifier: EPL-2.0

package mixer

import "context"

// LoadRequest identifies one source waveform and the layout the mixer needs
// it in.
type LoadRequest struct {
	ContentPathPrefix string
	AudioBaseURL      string
	InstrumentID      string
	WaveformKey       string
	FrameRate         int
	BitDepth          int
	Channels          int
}

// Decoded is source audio conformed to the mixer's frame rate, as
// [frame][channel] values nominally in [-1,1].
type Decoded struct {
	Data [][]float64
}

// Frames returns the number of frames of decoded audio.
func (d *Decoded) Frames() int { return len(d.Data) }

// Channels returns the channel count of the decoded audio, or 0 when empty.
func (d *Decoded) Channels() int {
	if len(d.Data) == 0 {
		return 0
	}
	return len(d.Data[0])
}

// AudioCache supplies decoded source audio. Any error it returns aborts the
// current mix.
type AudioCache interface {
	Load(ctx context.Context, req LoadRequest) (*Decoded, error)
}
