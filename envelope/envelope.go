// SPDX-License-Identifier: EPL-2.0

// Package envelope provides quarter-sine fade curves used to shape the
// attack and release boundaries of a sound so that it starts and stops
// without clicks.
package envelope

import (
	"math"
	"sync"
)

// Envelope is a precomputed fade curve of a fixed length in frames.
// The curve rises monotonically from 0 at delta 0 towards 1 at delta N.
type Envelope struct {
	curve []float64
}

// New builds an envelope spanning n frames. A negative length is treated as
// zero, which makes both In and Out pass values through (or silence them
// once released).
func New(n int) *Envelope {
	n = max(n, 0)
	curve := make([]float64, n)
	for i := 1; i < n; i++ {
		curve[i] = math.Sin(math.Pi / 2 * float64(i) / float64(n))
	}
	return &Envelope{curve: curve}
}

// Len returns the length of the envelope in frames.
func (e *Envelope) Len() int { return len(e.curve) }

// In applies the attack curve at delta frames after the attack began.
func (e *Envelope) In(delta int, value float64) float64 {
	if delta < 0 {
		return 0
	}
	if delta < len(e.curve) {
		return e.curve[delta] * value
	}
	return value
}

// Out applies the release curve at delta frames after the release began.
func (e *Envelope) Out(delta int, value float64) float64 {
	if delta > len(e.curve) {
		return 0
	}
	if delta <= 0 {
		return value
	}
	return e.curve[len(e.curve)-delta] * value
}

// Provider hands out envelopes by length, building each length once.
// It is safe for concurrent use.
type Provider struct {
	mtx   sync.Mutex
	byLen map[int]*Envelope
}

func NewProvider() *Provider {
	return &Provider{byLen: make(map[int]*Envelope)}
}

// Length returns the shared envelope of n frames.
func (p *Provider) Length(n int) *Envelope {
	n = max(n, 0)

	p.mtx.Lock()
	defer p.mtx.Unlock()

	if e, ok := p.byLen[n]; ok {
		return e
	}
	e := New(n)
	p.byLen[n] = e
	return e
}
