// SPDX-License-Identifier: EPL-2.0

// Package playback plays rendered PCM on the default audio device.
//
// The device backend is oto; building with the headless tag swaps it for a
// player that only drains its input, for CI machines without a sound card.
package playback

import (
	"io"
	"log/slog"

	"github.com/ik5/audmix/sample"
)

// DeviceFormat returns the format the device is fed for a stream in f. The
// device takes 16-bit little-endian and 32-bit little-endian float directly;
// everything else is converted to float.
func DeviceFormat(f sample.Format) sample.Format {
	switch f {
	case sample.S16LE, sample.F32LE, sample.U8:
		return f
	}
	return sample.F32LE
}

// deviceAttrs describes the device layout for logging.
func deviceAttrs(d sample.Descriptor, device sample.Format) []any {
	return []any{
		slog.Int("frameRate", d.FrameRate),
		slog.Int("channels", d.Channels),
		slog.String("format", device.String()),
	}
}

// Transcoder converts a PCM stream from one sample format to another as it
// is read. Partial samples at the end of a source read are held until the
// rest arrives.
type Transcoder struct {
	src      io.Reader
	from, to sample.Format

	in  []byte
	pos int
	out []byte
}

func NewTranscoder(src io.Reader, from, to sample.Format) *Transcoder {
	return &Transcoder{
		src:  src,
		from: from,
		to:   to,
		in:   make([]byte, 0, 4096*from.BytesPerSample()),
	}
}

func (t *Transcoder) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for t.pos == len(t.out) {
		if err := t.fill(); err != nil {
			return 0, err
		}
	}

	n := copy(p, t.out[t.pos:])
	t.pos += n
	return n, nil
}

func (t *Transcoder) fill() error {
	width := t.from.BytesPerSample()

	held := len(t.in)
	t.in = t.in[:cap(t.in)]
	n, err := t.src.Read(t.in[held:])
	t.in = t.in[:held+n]

	whole := len(t.in) / width * width
	t.out = t.out[:0]
	t.pos = 0
	for off := 0; off < whole; off += width {
		v, derr := sample.Decode(t.in[off:off+width], t.from)
		if derr != nil {
			return derr
		}
		t.out = sample.AppendEncoded(t.out, v, t.to)
	}
	t.in = t.in[:copy(t.in, t.in[whole:])]

	if len(t.out) > 0 {
		return nil
	}
	if err == io.EOF && len(t.in) > 0 {
		return io.ErrUnexpectedEOF
	}
	return err
}
