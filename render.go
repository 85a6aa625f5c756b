// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/mixer"
)

// Render mixes each segment in turn and copies the engine's output into
// sink as it is produced. It returns the number of seconds rendered.
//
// The engine's pipe is closed when rendering ends, so an engine can only be
// rendered once. A failing sink cancels the mix; a failing mix still lets
// the sink receive every segment completed before it.
func Render(ctx context.Context, e *mixer.Engine, segments [][]mixer.ActiveAudio, sink io.Writer) (float64, error) {
	out := e.Pipe()
	g, gctx := errgroup.WithContext(ctx)

	var seconds float64
	g.Go(func() error {
		defer out.Close()

		for i, active := range segments {
			s, err := e.MixContext(gctx, active)
			if err != nil {
				return fmt.Errorf("segment %d: %w", i, err)
			}
			seconds += s
		}
		return nil
	})

	g.Go(func() error {
		// A failed copy cancels gctx, which unblocks the producer.
		if _, err := io.Copy(sink, out); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return seconds, err
	}
	return seconds, nil
}

// RenderToWAV renders segments into a WAV file written to w, in the
// engine's output format.
func RenderToWAV(ctx context.Context, e *mixer.Engine, segments [][]mixer.ActiveAudio, w io.WriteSeeker) (float64, error) {
	ww, err := wav.NewWriter(w, e.Config().OutputFormat)
	if err != nil {
		return 0, err
	}

	seconds, err := Render(ctx, e, segments, ww)
	if cerr := ww.Close(); err == nil {
		err = cerr
	}
	return seconds, err
}
