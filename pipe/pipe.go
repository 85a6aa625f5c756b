// SPDX-License-Identifier: EPL-2.0

// Package pipe implements a fixed capacity byte queue that decouples a
// renderer from whatever persists or streams its output.
//
// Produce blocks while the queue lacks room (backpressure); Consume never
// blocks and returns at most the bytes currently available. Read adapts the
// pipe to io.Reader for writers that want to io.Copy from it.
package pipe

import (
	"context"
	"io"
	"sync"
)

// Pipe is a ring buffer with exactly one producer and one consumer in mind.
// All methods are safe to call from different goroutines.
type Pipe struct {
	buf    []byte
	r      int // read position
	n      int // bytes stored
	closed bool

	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond
}

// New returns a pipe holding at most capacity bytes.
func New(capacity int) *Pipe {
	p := &Pipe{buf: make([]byte, max(capacity, 1))}
	p.notFull = sync.NewCond(&p.mu)
	p.notEmpty = sync.NewCond(&p.mu)
	return p
}

// Cap returns the fixed capacity in bytes.
func (p *Pipe) Cap() int { return len(p.buf) }

// Available reports how many bytes can be consumed without blocking.
func (p *Pipe) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}

// Produce appends all of b, blocking while the pipe lacks room. A b that
// fits the capacity is queued in one piece, so a consumer never sees part of
// it. Larger inputs are streamed through as the consumer drains.
//
// If the pipe is closed before b is fully queued, the part of b a consumer
// has not taken yet is withdrawn and ErrClosed is returned.
func (p *Pipe) Produce(b []byte) error {
	return p.produce(nil, b)
}

// ProduceContext is Produce that gives up waiting for room once ctx is
// done, withdrawing the unconsumed part of b the same way.
func (p *Pipe) ProduceContext(ctx context.Context, b []byte) error {
	if ctx.Done() == nil {
		return p.produce(nil, b)
	}

	stop := context.AfterFunc(ctx, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.notFull.Broadcast()
	})
	defer stop()

	return p.produce(ctx, b)
}

func (p *Pipe) produce(ctx context.Context, b []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Room needed before copying: all of b when it fits, else any.
	need := 1
	if len(b) <= len(p.buf) {
		need = len(b)
	}

	queued := 0
	fail := func(err error) error {
		// b was appended last, so what is left of it sits at the tail.
		p.n -= min(queued, p.n)
		return err
	}

	for len(b) > 0 {
		for len(p.buf)-p.n < need && !p.closed {
			if ctx != nil && ctx.Err() != nil {
				return fail(ctx.Err())
			}
			p.notFull.Wait()
		}
		if p.closed {
			return fail(ErrClosed)
		}
		if ctx != nil && ctx.Err() != nil {
			return fail(ctx.Err())
		}

		chunk := min(len(b), len(p.buf)-p.n)
		end := (p.r + p.n) % len(p.buf)
		right := min(len(p.buf)-end, chunk)

		copy(p.buf[end:end+right], b[:right])
		if right < chunk {
			copy(p.buf[:chunk-right], b[right:chunk])
		}

		p.n += chunk
		queued += chunk
		b = b[chunk:]
		p.notEmpty.Signal()
	}

	return nil
}

// Consume removes and returns up to n bytes. It never blocks: when fewer
// than n bytes are queued the result is shorter, and an empty pipe yields an
// empty slice.
func (p *Pipe) Consume(n int) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]byte, min(max(n, 0), p.n))
	p.take(out)
	return out
}

// take moves len(dst) queued bytes into dst. Callers hold mu.
func (p *Pipe) take(dst []byte) {
	if len(dst) == 0 {
		return
	}
	right := min(len(p.buf)-p.r, len(dst))
	copy(dst, p.buf[p.r:p.r+right])
	if right < len(dst) {
		copy(dst[right:], p.buf[:len(dst)-right])
	}
	p.r = (p.r + len(dst)) % len(p.buf)
	p.n -= len(dst)
	p.notFull.Signal()
}

// Read implements io.Reader. It blocks until at least one byte is queued
// and returns io.EOF once the pipe is closed and drained.
func (p *Pipe) Read(dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for p.n == 0 && !p.closed {
		p.notEmpty.Wait()
	}
	if p.n == 0 {
		return 0, io.EOF
	}

	n := min(len(dst), p.n)
	p.take(dst[:n])
	return n, nil
}

// Close marks the end of production. Pending bytes remain readable, except
// those of a blocked producer, which withdraws them and returns ErrClosed.
func (p *Pipe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	p.notFull.Broadcast()
	p.notEmpty.Broadcast()
	return nil
}
