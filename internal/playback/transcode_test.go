// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/ik5/audmix/sample"
)

func TestDeviceFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want sample.Format
	}{
		{sample.S16LE, sample.S16LE},
		{sample.F32LE, sample.F32LE},
		{sample.S16BE, sample.F32LE},
		{sample.S24LE, sample.F32LE},
		{sample.F64BE, sample.F32LE},
	}
	for _, tt := range tests {
		if got := DeviceFormat(tt.in); got != tt.want {
			t.Errorf("DeviceFormat(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTranscoder(t *testing.T) {
	t.Parallel()

	values := []float64{0, 0.5, -0.5, 0.25, -1}
	src := sample.EncodeFrames([][]float64{values}, sample.S24BE)

	// One byte per read forces partial samples to be carried over.
	r := NewTranscoder(iotest.OneByteReader(&byteReader{b: src}), sample.S24BE, sample.F32LE)
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	got, err := sample.DecodeFrames(out, sample.F32LE, 1)
	if err != nil {
		t.Fatalf("DecodeFrames: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("expected %d samples, got %d", len(values), len(got))
	}
	for i, v := range values {
		if math.Abs(got[i][0]-v) > 1e-6 {
			t.Errorf("sample %d: got %v, want %v", i, got[i][0], v)
		}
	}
}

func TestTranscoder_TruncatedSample(t *testing.T) {
	t.Parallel()

	src := append(sample.EncodeFrames([][]float64{{0.5}}, sample.S32LE), 0x01, 0x02)
	_, err := io.ReadAll(NewTranscoder(&byteReader{b: src}, sample.S32LE, sample.F32LE))
	if err != io.ErrUnexpectedEOF {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}

type byteReader struct {
	b []byte
}

func (r *byteReader) Read(p []byte) (int, error) {
	if len(r.b) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.b)
	r.b = r.b[n:]
	return n, nil
}

func TestDeviceAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	d := sample.Descriptor{Channels: 2, FrameRate: 48000, BitDepth: 24}
	logger.Info("opened", deviceAttrs(d, sample.F32LE)...)

	out := buf.String()
	for _, want := range []string{`"frameRate":48000`, `"channels":2`, `"format":"F32LE"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q lacks %s", out, want)
		}
	}
	if strings.Contains(out, "_") {
		t.Errorf("log line %q has snake_case keys", out)
	}
}
