// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"io"
	"testing"
)

// fakeReader mimics oggvorbis.Reader: it returns a multiple of the
// channel count and reports io.EOF once drained.
type fakeReader struct {
	channels int
	data     []float32
}

func (f *fakeReader) SampleRate() int { return 48000 }

func (f *fakeReader) Channels() int { return f.channels }

func (f *fakeReader) Read(p []float32) (int, error) {
	if len(f.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, f.data)
	n -= n % f.channels
	f.data = f.data[n:]
	return n, nil
}

func TestSource_TrimsToWholeFrames(t *testing.T) {
	t.Parallel()

	dec := &fakeReader{channels: 2, data: []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}}
	s := &source{dec: dec, rate: 48000, channels: 2}

	dst := make([]float32, 5)
	n, err := s.ReadSamples(dst)
	if n != 4 || err != nil {
		t.Fatalf("ReadSamples() = (%d, %v), want (4, nil)", n, err)
	}
	if dst[3] != 0.4 {
		t.Errorf("dst[3] = %v, want 0.4", dst[3])
	}

	n, _ = s.ReadSamples(dst)
	if n != 2 || dst[0] != 0.5 || dst[1] != 0.6 {
		t.Errorf("second read = %d %v", n, dst[:2])
	}

	if n, err := s.ReadSamples(dst); n != 0 || err != io.EOF {
		t.Errorf("read after end = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestSource_BufferSmallerThanFrame(t *testing.T) {
	t.Parallel()

	s := &source{dec: &fakeReader{channels: 6, data: make([]float32, 12)}, rate: 48000, channels: 6}
	if n, err := s.ReadSamples(make([]float32, 5)); n != 0 || err != nil {
		t.Errorf("ReadSamples() = (%d, %v), want (0, nil)", n, err)
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("OggS but not really"))); err == nil {
		t.Error("Decode() error = nil for garbage input")
	}
}
