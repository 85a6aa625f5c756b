// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ik5/audmix/sample"
)

const headerSize = 44

// Writer wraps already encoded little-endian PCM in a WAV container. The
// header is written up front with empty sizes and patched on Close, so the
// PCM can be streamed straight from a renderer.
type Writer struct {
	w       io.WriteSeeker
	desc    sample.Descriptor
	format  sample.Format
	written int64
	closed  bool
}

// NewWriter writes the header for d and returns a Writer for its data
// chunk. 8-bit data must be unsigned and all data little-endian.
func NewWriter(w io.WriteSeeker, d sample.Descriptor) (*Writer, error) {
	format, err := sample.TypeOfInput(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedEncoding, err)
	}
	if format.BigEndian() || format == sample.S8 || format == sample.U16LE {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, format)
	}
	if d.Channels < 1 || d.FrameRate < 1 {
		return nil, ErrUnsupportedWavLayout
	}

	wr := &Writer{w: w, desc: d, format: format}
	if _, err := w.Write(header(d, format, 0)); err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return wr, nil
}

// Format returns the sample format the data chunk is expected to hold.
func (w *Writer) Format() sample.Format { return w.format }

func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}
	n, err := w.w.Write(p)
	w.written += int64(n)
	if err != nil {
		return n, fmt.Errorf("%w", err)
	}
	return n, nil
}

// Close pads the data chunk to an even length and fills in the chunk
// sizes. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.written > math.MaxUint32-headerSize {
		return fmt.Errorf("%w: %d bytes of data", ErrUnsupportedWavLayout, w.written)
	}
	if w.written%2 == 1 {
		if _, err := w.w.Write([]byte{0}); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	if _, err := w.w.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}
	if _, err := w.w.Write(header(w.desc, w.format, uint32(w.written))); err != nil {
		return fmt.Errorf("%w", err)
	}
	if _, err := w.w.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// header builds the canonical 44 byte RIFF/WAVE header.
func header(d sample.Descriptor, f sample.Format, dataSize uint32) []byte {
	tag := uint16(formatPCM)
	if f.IsFloat() {
		tag = formatFloat
	}
	blockAlign := uint16(d.Channels * f.BytesPerSample())
	byteRate := uint32(d.FrameRate) * uint32(blockAlign)
	riffSize := 36 + dataSize + dataSize%2

	h := make([]byte, headerSize)
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], riffSize)
	copy(h[8:12], "WAVE")

	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16)
	binary.LittleEndian.PutUint16(h[20:22], tag)
	binary.LittleEndian.PutUint16(h[22:24], uint16(d.Channels))
	binary.LittleEndian.PutUint32(h[24:28], uint32(d.FrameRate))
	binary.LittleEndian.PutUint32(h[28:32], byteRate)
	binary.LittleEndian.PutUint16(h[32:34], blockAlign)
	binary.LittleEndian.PutUint16(h[34:36], uint16(f.BitDepth()))

	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], dataSize)
	return h
}
