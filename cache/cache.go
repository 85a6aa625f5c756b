// SPDX-License-Identifier: EPL-2.0

package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/aiff"
	"github.com/ik5/audmix/formats/mp3"
	"github.com/ik5/audmix/formats/vorbis"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/mixer"
)

var _ mixer.AudioCache = (*Cache)(nil)

// DefaultRegistry knows every format in formats/.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	return r
}

// entryKey identifies one decoded layout of a source. The origin is part of
// it: the same key under another prefix or base URL is another file.
type entryKey struct {
	contentPathPrefix string
	audioBaseURL      string
	instrumentID      string
	waveformKey       string
	frameRate         int
	channels          int
}

// String is the singleflight key. Quoting keeps IDs that contain the
// separator from running into each other.
func (k entryKey) String() string {
	return fmt.Sprintf("%q %q %q %q %d %d",
		k.contentPathPrefix, k.audioBaseURL, k.instrumentID, k.waveformKey, k.frameRate, k.channels)
}

// Cache is a memoising mixer.AudioCache. It is safe for concurrent use, and
// concurrent loads of the same entry share one decode.
type Cache struct {
	registry *audio.Registry
	client   *http.Client
	logger   *slog.Logger

	mtx     sync.RWMutex
	entries map[entryKey]*mixer.Decoded
	loads   singleflight.Group
}

type Option func(*Cache)

func WithRegistry(r *audio.Registry) Option {
	return func(c *Cache) {
		if r != nil {
			c.registry = r
		}
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Cache) {
		if h != nil {
			c.client = h
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(opts ...Option) *Cache {
	c := &Cache{
		registry: DefaultRegistry(),
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   slog.Default(),
		entries:  make(map[entryKey]*mixer.Decoded),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("component", "cache"))
	return c
}

// Load returns the source of req conformed to req.FrameRate and
// req.Channels, decoding it on first use.
func (c *Cache) Load(ctx context.Context, req mixer.LoadRequest) (*mixer.Decoded, error) {
	if req.WaveformKey == "" {
		return nil, fmt.Errorf("%w: empty waveform key", ErrNotFound)
	}
	key := entryKey{
		contentPathPrefix: req.ContentPathPrefix,
		audioBaseURL:      req.AudioBaseURL,
		instrumentID:      req.InstrumentID,
		waveformKey:       req.WaveformKey,
		frameRate:         req.FrameRate,
		channels:          req.Channels,
	}

	c.mtx.RLock()
	d, ok := c.entries[key]
	c.mtx.RUnlock()
	if ok {
		return d, nil
	}

	v, err, _ := c.loads.Do(key.String(), func() (any, error) {
		c.mtx.RLock()
		d, ok := c.entries[key]
		c.mtx.RUnlock()
		if ok {
			return d, nil
		}

		d, err := c.load(ctx, req)
		if err != nil {
			return nil, err
		}

		c.mtx.Lock()
		c.entries[key] = d
		c.mtx.Unlock()
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*mixer.Decoded), nil
}

func (c *Cache) load(ctx context.Context, req mixer.LoadRequest) (*mixer.Decoded, error) {
	startedAt := time.Now()

	dec, ok := c.registry.Lookup(req.WaveformKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExtension, req.WaveformKey)
	}

	r, origin, err := c.open(ctx, req)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	src, err := dec.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", origin, err)
	}
	defer src.Close()

	sourceRate, sourceChannels := src.SampleRate(), src.Channels()
	conformed, err := audio.Conform(src, req.FrameRate, req.Channels)
	if err != nil {
		return nil, fmt.Errorf("conform %s: %w", origin, err)
	}
	frames, err := audio.ReadFrames(conformed, 0)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", origin, err)
	}

	c.logger.Debug("did load audio",
		slog.String("instrumentId", req.InstrumentID),
		slog.String("waveformKey", req.WaveformKey),
		slog.String("origin", origin),
		slog.Int("sourceFrameRate", sourceRate),
		slog.Int("sourceChannels", sourceChannels),
		slog.Int("frames", len(frames)),
		slog.Duration("elapsed", time.Since(startedAt)),
	)

	return &mixer.Decoded{Data: frames}, nil
}

// open finds the encoded source on disk or over HTTP.
func (c *Cache) open(ctx context.Context, req mixer.LoadRequest) (io.ReadCloser, string, error) {
	if req.ContentPathPrefix != "" {
		path := filepath.Join(req.ContentPathPrefix, req.InstrumentID, req.WaveformKey)
		f, err := os.Open(path)
		switch {
		case err == nil:
			return f, path, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, path, fmt.Errorf("%w", err)
		}
	}

	if req.AudioBaseURL == "" {
		return nil, "", fmt.Errorf("%w: %s/%s", ErrNotFound, req.InstrumentID, req.WaveformKey)
	}

	u, err := url.JoinPath(req.AudioBaseURL, req.WaveformKey)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, u, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, u, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, u, fmt.Errorf("%w: %s", ErrNotFound, u)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, u, fmt.Errorf("%w: %s: %s", ErrFetch, u, resp.Status)
	}
	return resp.Body, u, nil
}

// Forget drops every layout cached for a waveform of an instrument.
func (c *Cache) Forget(instrumentID, waveformKey string) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	for k := range c.entries {
		if k.instrumentID == instrumentID && k.waveformKey == waveformKey {
			delete(c.entries, k)
		}
	}
}

func (c *Cache) Clear() {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	clear(c.entries)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	return len(c.entries)
}
