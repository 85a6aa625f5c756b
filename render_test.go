// SPDX-License-Identifier: EPL-2.0

package audmix_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/internal/audiotest"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/sample"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	frameRate = 8000
	seconds   = 0.5
)

func newEngine(t *testing.T, cache mixer.AudioCache, opts ...mixer.Option) *mixer.Engine {
	t.Helper()

	cfg := mixer.DefaultConfig()
	cfg.TotalSeconds = seconds
	cfg.OutputFormat = sample.Descriptor{Channels: 1, FrameRate: frameRate, BitDepth: 16, Encoding: sample.Signed}

	e, err := mixer.New(cfg, cache, append([]mixer.Option{mixer.WithLogger(quiet)}, opts...)...)
	if err != nil {
		t.Fatalf("mixer.New() error = %v", err)
	}
	return e
}

func pick(id, key string) mixer.ActiveAudio {
	return mixer.NewActiveAudio(id, 1,
		mixer.Instrument{ID: "pad", Type: mixer.InstrumentPad, Volume: 1},
		mixer.Audio{ID: id, WaveformKey: key, Volume: 1},
		0, nil, 0, 0,
	)
}

func testCache() *audiotest.Cache {
	c := audiotest.NewCache()
	c.Put("pad.wav", audiotest.ConstantFrames(frameRate, 1, 0.25))
	c.Fail("broken.wav", errors.New("boom"))
	return c
}

func TestRender(t *testing.T) {
	t.Parallel()

	// A pipe smaller than a segment forces producer and consumer to overlap.
	e := newEngine(t, testCache(), mixer.WithPipeSize(512))
	segments := [][]mixer.ActiveAudio{
		{pick("a", "pad.wav")},
		{},
		{pick("b", "pad.wav")},
	}

	var out bytes.Buffer
	got, err := audmix.Render(context.Background(), e, segments, &out)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != 3*seconds {
		t.Errorf("Render() seconds = %v, want %v", got, 3*seconds)
	}

	segmentBytes := e.TotalFrames() * 2
	if out.Len() != 3*segmentBytes {
		t.Fatalf("rendered %d bytes, want %d", out.Len(), 3*segmentBytes)
	}

	frames, err := sample.DecodeFrames(out.Bytes(), sample.S16LE, 1)
	if err != nil {
		t.Fatalf("DecodeFrames() error = %v", err)
	}
	if frames[e.TotalFrames()/2][0] == 0 {
		t.Error("first segment is silent")
	}
	if v := frames[e.TotalFrames()+e.TotalFrames()/2][0]; v != 0 {
		t.Errorf("empty segment has sample %v", v)
	}
}

func TestRender_MixFailureKeepsCompletedSegments(t *testing.T) {
	t.Parallel()

	e := newEngine(t, testCache())
	segments := [][]mixer.ActiveAudio{
		{pick("a", "pad.wav")},
		{pick("b", "broken.wav")},
		{pick("c", "pad.wav")},
	}

	var out bytes.Buffer
	got, err := audmix.Render(context.Background(), e, segments, &out)
	if !errors.Is(err, mixer.ErrMix) {
		t.Fatalf("Render() error = %v, want ErrMix", err)
	}
	if got != seconds {
		t.Errorf("Render() seconds = %v, want %v", got, seconds)
	}
	if out.Len() != e.TotalFrames()*2 {
		t.Errorf("rendered %d bytes, want one segment", out.Len())
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestRender_SinkFailure(t *testing.T) {
	t.Parallel()

	sinkErr := errors.New("disk full")
	e := newEngine(t, testCache(), mixer.WithPipeSize(256))
	segments := [][]mixer.ActiveAudio{{pick("a", "pad.wav")}, {pick("b", "pad.wav")}}

	_, err := audmix.Render(context.Background(), e, segments, failingWriter{sinkErr})
	if !errors.Is(err, sinkErr) {
		t.Fatalf("Render() error = %v, want %v", err, sinkErr)
	}
}

func TestRenderToWAV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	e := newEngine(t, testCache())
	segments := [][]mixer.ActiveAudio{{pick("a", "pad.wav")}, {pick("b", "pad.wav")}}
	if _, err := audmix.RenderToWAV(context.Background(), e, segments, f); err != nil {
		t.Fatalf("RenderToWAV() error = %v", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}

	src, err := wav.Decoder{}.Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != frameRate || src.Channels() != 1 {
		t.Errorf("decoded %d Hz %d ch, want %d Hz mono", src.SampleRate(), src.Channels(), frameRate)
	}

	frames, err := audio.ReadFrames(src, 1024)
	if err != nil {
		t.Fatalf("ReadFrames() error = %v", err)
	}
	if len(frames) != 2*e.TotalFrames() {
		t.Errorf("decoded %d frames, want %d", len(frames), 2*e.TotalFrames())
	}
}
