// SPDX-License-Identifier: EPL-2.0

//go:build !headless

package playback

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/audmix/sample"
)

// Player streams PCM from a reader to the default output device until the
// reader is exhausted.
type Player struct {
	mtx    sync.Mutex
	ctx    *oto.Context
	player *oto.Player
	logger *slog.Logger
}

var (
	contextOnce sync.Once
	sharedCtx   *oto.Context
	contextErr  error
	contextOpts oto.NewContextOptions
)

// oto allows a single context per process; every player shares it and must
// agree on its layout.
func deviceContext(opts oto.NewContextOptions) (*oto.Context, error) {
	contextOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&opts)
		if err != nil {
			contextErr = err
			return
		}
		<-ready
		sharedCtx = ctx
		contextOpts = opts
	})
	if contextErr != nil {
		return nil, contextErr
	}
	if contextOpts.SampleRate != opts.SampleRate || contextOpts.ChannelCount != opts.ChannelCount || contextOpts.Format != opts.Format {
		return nil, fmt.Errorf("%w: device already opened at %d Hz, %d channels", ErrDeviceLayout, contextOpts.SampleRate, contextOpts.ChannelCount)
	}
	return sharedCtx, nil
}

// New opens the output device for PCM in layout d read from src.
func New(d sample.Descriptor, src io.Reader, logger *slog.Logger) (*Player, error) {
	format, err := sample.TypeOfOutput(d)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	device := DeviceFormat(format)
	var r io.Reader = src
	if device != format {
		r = NewTranscoder(src, format, device)
	}

	opts := oto.NewContextOptions{
		SampleRate:   d.FrameRate,
		ChannelCount: d.Channels,
		Format:       otoFormat(device),
		BufferSize:   100 * time.Millisecond,
	}
	ctx, err := deviceContext(opts)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}

	logger.Debug("opened audio device", deviceAttrs(d, device)...)

	return &Player{
		ctx:    ctx,
		player: ctx.NewPlayer(r),
		logger: logger,
	}, nil
}

func otoFormat(f sample.Format) oto.Format {
	switch f {
	case sample.S16LE:
		return oto.FormatSignedInt16LE
	case sample.U8:
		return oto.FormatUnsignedInt8
	}
	return oto.FormatFloat32LE
}

// Play starts playback and blocks until the source is drained or ctx is
// done.
func (p *Player) Play(ctx context.Context) error {
	p.mtx.Lock()
	player := p.player
	p.mtx.Unlock()
	if player == nil {
		return ErrClosed
	}

	player.Play()
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return player.Err()
}

func (p *Player) Close() error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	return err
}
