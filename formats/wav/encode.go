// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/audmix/utils"
)

// Encode writes [frame][channel] values as a signed integer PCM WAV of the
// given depth (16, 24 or 32 bits).
func Encode(w io.WriteSeeker, frames [][]float64, rate, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return fmt.Errorf("%w: %d-bit", ErrUnsupportedEncoding, bitDepth)
	}
	if len(frames) == 0 || len(frames[0]) == 0 {
		return ErrUnsupportedWavLayout
	}

	channels := len(frames[0])
	scale := float64(int64(1)<<(bitDepth-1)) - 1
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		Data:           make([]int, 0, len(frames)*channels),
		SourceBitDepth: bitDepth,
	}
	for _, frame := range frames {
		for c := range channels {
			buf.Data = append(buf.Data, int(utils.Limit(-1, 1, frame[c])*scale))
		}
	}

	enc := gowav.NewEncoder(w, rate, bitDepth, channels, formatPCM)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("%w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
