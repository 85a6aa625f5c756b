// SPDX-License-Identifier: EPL-2.0

//go:build headless

package playback

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/ik5/audmix/sample"
)

// Player discards what it reads at full speed.
type Player struct {
	mtx    sync.Mutex
	src    io.Reader
	logger *slog.Logger
}

func New(d sample.Descriptor, src io.Reader, logger *slog.Logger) (*Player, error) {
	format, err := sample.TypeOfOutput(d)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	device := DeviceFormat(format)
	if device != format {
		src = NewTranscoder(src, format, device)
	}
	logger.Debug("opened headless audio device", deviceAttrs(d, device)...)
	return &Player{src: src, logger: logger}, nil
}

func (p *Player) Play(ctx context.Context) error {
	p.mtx.Lock()
	src := p.src
	p.mtx.Unlock()
	if src == nil {
		return ErrClosed
	}

	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := src.Read(buf); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func (p *Player) Close() error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.src = nil
	return nil
}
