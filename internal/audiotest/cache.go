// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"context"
	"fmt"
	"sync"

	"github.com/ik5/audmix/mixer"
)

// Cache is an in-memory mixer.AudioCache keyed by waveform key.
type Cache struct {
	mtx      sync.Mutex
	sources  map[string][][]float64
	failures map[string]error
	requests []mixer.LoadRequest
}

func NewCache() *Cache {
	return &Cache{
		sources:  make(map[string][][]float64),
		failures: make(map[string]error),
	}
}

// Put registers decoded frames for a waveform key.
func (c *Cache) Put(key string, data [][]float64) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.sources[key] = data
}

// Fail makes every load of key return err.
func (c *Cache) Fail(key string, err error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.failures[key] = err
}

// Requests returns every request seen so far, in order.
func (c *Cache) Requests() []mixer.LoadRequest {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return append([]mixer.LoadRequest(nil), c.requests...)
}

func (c *Cache) Load(_ context.Context, req mixer.LoadRequest) (*mixer.Decoded, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.requests = append(c.requests, req)
	if err, ok := c.failures[req.WaveformKey]; ok {
		return nil, err
	}
	data, ok := c.sources[req.WaveformKey]
	if !ok {
		return nil, fmt.Errorf("audiotest: no source for %q", req.WaveformKey)
	}
	return &mixer.Decoded{Data: data}, nil
}

// ConstantFrames returns frames×channels of value.
func ConstantFrames(frames, channels int, value float64) [][]float64 {
	out := make([][]float64, frames)
	for f := range out {
		out[f] = make([]float64, channels)
		for c := range out[f] {
			out[f][c] = value
		}
	}
	return out
}
