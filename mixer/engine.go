// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ik5/audmix/envelope"
	"github.com/ik5/audmix/pipe"
	"github.com/ik5/audmix/sample"
	"github.com/ik5/audmix/utils"
)

// NormalizationGrain is the frame stride used when scanning for the peak
// before normalization.
const NormalizationGrain = 20

// State of an Engine relative to a mix.
type State int

const (
	Ready State = iota
	Mixing
	Done
)

func (s State) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Mixing:
		return "Mixing"
	case Done:
		return "Done"
	}
	return "Unknown"
}

// Engine mixes active audio into PCM bytes, one render window at a time.
//
// An Engine is not safe for concurrent use: its mix buffers, bus
// assignments and compressor state are owned by the one goroutine calling
// Mix. Use one engine per output stream. The output pipe is the only part
// meant to be shared, with a consumer reading from it concurrently.
type Engine struct {
	cfg       Config
	format    sample.Format
	cache     AudioCache
	envelopes *envelope.Provider
	logger    *slog.Logger
	out       *pipe.Pipe
	pipeSize  int

	outputChannels int
	frameRate      int
	framesPerMilli int
	microsPerFrame float64
	totalFrames    int

	busBuf [][][]float64 // [bus][frame][channel]
	outBuf [][]float64   // [frame][channel]

	busLevel   map[int]float64
	busNumber  map[InstrumentType]int
	busOrder   []InstrumentType
	compressor *Compressor
	state      State
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPipe makes the engine produce into p instead of a pipe of its own.
func WithPipe(p *pipe.Pipe) Option {
	return func(e *Engine) { e.out = p }
}

// WithPipeSize sets the capacity of the engine's own output pipe. The
// default holds exactly one render.
func WithPipeSize(n int) Option {
	return func(e *Engine) { e.pipeSize = n }
}

// WithEnvelopeProvider shares envelope tables between engines.
func WithEnvelopeProvider(p *envelope.Provider) Option {
	return func(e *Engine) {
		if p != nil {
			e.envelopes = p
		}
	}
}

// New validates cfg and allocates the mix buffers for one render window.
func New(cfg Config, cache AudioCache, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cache == nil {
		return nil, ErrNilAudioCache
	}

	format, err := sample.TypeOfOutput(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:            cfg,
		format:         format,
		cache:          cache,
		envelopes:      envelope.NewProvider(),
		logger:         slog.Default(),
		outputChannels: cfg.OutputFormat.Channels,
		frameRate:      cfg.OutputFormat.FrameRate,
		framesPerMilli: cfg.FramesPerMilli(),
		microsPerFrame: cfg.MicrosPerFrame(),
		totalFrames:    cfg.TotalFrames(),
		busLevel:       make(map[int]float64),
		busNumber:      make(map[InstrumentType]int),
		compressor:     NewCompressor(cfg),
		state:          Ready,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.logger.With(slog.String("component", "mixer"))
	if cfg.LogPrefix != "" {
		e.logger = e.logger.With(slog.String("segment", cfg.LogPrefix))
	}

	e.busBuf = make([][][]float64, cfg.TotalBuses)
	for b := range e.busBuf {
		e.busBuf[b] = makeFrames(e.totalFrames, e.outputChannels)
	}
	e.outBuf = makeFrames(e.totalFrames, e.outputChannels)

	totalBytes := e.totalFrames * format.BytesPerSample() * e.outputChannels
	if e.out == nil {
		size := e.pipeSize
		if size <= 0 {
			size = totalBytes
		}
		e.out = pipe.New(size)
	}

	e.logger.Debug("did initialize mixer",
		slog.Int("outputChannels", e.outputChannels),
		slog.Int("outputFrameRate", e.frameRate),
		slog.Int("outputFrameSize", format.BytesPerSample()*e.outputChannels),
		slog.Float64("microsPerFrame", e.microsPerFrame),
		slog.Float64("totalSeconds", cfg.TotalSeconds),
		slog.Int("totalFrames", e.totalFrames),
		slog.Int("totalBytes", totalBytes),
	)

	return e, nil
}

func makeFrames(frames, channels int) [][]float64 {
	backing := make([]float64, frames*channels)
	buf := make([][]float64, frames)
	for f := range buf {
		buf[f] = backing[f*channels : (f+1)*channels : (f+1)*channels]
	}
	return buf
}

// Mix renders active into the output pipe and returns the number of seconds
// rendered. On error nothing of the window is left queued in the pipe. When
// the pipe is smaller than one window the output is streamed, and a consumer
// may already have read the start of a window that then fails.
func (e *Engine) Mix(active []ActiveAudio) (float64, error) {
	return e.MixContext(context.Background(), active)
}

// MixContext is Mix with ctx passed to the audio cache and honored while
// waiting for room in the output pipe. The signal processing itself is not
// interruptible.
func (e *Engine) MixContext(ctx context.Context, active []ActiveAudio) (float64, error) {
	e.state = Mixing
	startedAt := time.Now()
	e.clearBuffers()

	e.logger.Debug("will mix",
		slog.Float64("seconds", e.cfg.TotalSeconds),
		slog.Int("frameRate", e.frameRate),
		slog.Int("activeAudios", len(active)),
	)

	for _, a := range active {
		if err := e.addToMix(ctx, a); err != nil {
			e.state = Ready
			return 0, err
		}
	}

	// Buses are mixed down uncompressed; a per-bus compressor is reserved.
	e.mixOutputBus()

	// Forcing the dynamic range into a logarithmic curve keeps levels well
	// below full scale, so the compressor works in a predictable range.
	e.applyLogarithmicDynamicRange()
	e.compressor.Apply(e.outBuf)

	if e.cfg.NormalizationEnabled {
		e.applyNormalization()
	}

	encoded := sample.EncodeFrames(e.outBuf, e.format)

	e.logger.Debug("did mix",
		slog.Float64("seconds", e.cfg.TotalSeconds),
		slog.Int("activeAudios", len(active)),
		slog.Duration("elapsed", time.Since(startedAt)),
		slog.Float64("compressorRatio", e.compressor.Ratio()),
	)

	if err := e.out.ProduceContext(ctx, encoded); err != nil {
		e.state = Ready
		return 0, &MixError{Err: fmt.Errorf("write output: %w", err)}
	}

	e.state = Done
	return e.cfg.TotalSeconds, nil
}

func (e *Engine) clearBuffers() {
	for _, bus := range e.busBuf {
		for _, frame := range bus {
			clear(frame)
		}
	}
	for _, frame := range e.outBuf {
		clear(frame)
	}
}

// addToMix accumulates one placement onto its instrument's bus.
func (e *Engine) addToMix(ctx context.Context, a ActiveAudio) error {
	if err := a.Validate(); err != nil {
		return &MixError{AudioID: a.Audio.ID, Err: err}
	}
	if a.Audio.WaveformKey == "" {
		e.logger.Warn("active audio has empty waveform key",
			slog.String("instrumentId", a.Instrument.ID),
			slog.String("audioId", a.Audio.ID),
		)
		return nil
	}

	bus := e.BusNumber(a.Instrument.Type)
	if bus >= len(e.busBuf) {
		return &MixError{AudioID: a.Audio.ID, Err: fmt.Errorf("%w: %s needs bus %d of %d", ErrBusOverflow, a.Instrument.Type, bus, len(e.busBuf))}
	}

	cached, err := e.cache.Load(ctx, LoadRequest{
		ContentPathPrefix: e.cfg.ContentStoragePathPrefix,
		AudioBaseURL:      e.cfg.AudioBaseURL,
		InstrumentID:      a.Instrument.ID,
		WaveformKey:       a.Audio.WaveformKey,
		FrameRate:         e.frameRate,
		BitDepth:          e.cfg.OutputFormat.BitDepth,
		Channels:          e.outputChannels,
	})
	if err != nil {
		return &MixError{AudioID: a.Audio.ID, Err: err}
	}
	if cached == nil || cached.Frames() == 0 {
		return nil
	}

	attack := e.envelopes.Length(a.AttackMillis * e.framesPerMilli)
	release := e.envelopes.Length(a.ReleaseMillis * e.framesPerMilli)

	// Theoretical placement in the mix buffer; either end may fall outside it.
	begin := int(float64(a.StartAtMicros) / e.microsPerFrame)
	end := begin + cached.Frames()
	if a.StopAtMicros != nil {
		end = int(float64(*a.StopAtMicros) / e.microsPerFrame)
	}

	tfMin := max(begin, 0)
	tfMax := min(end+release.Len(), e.totalFrames)
	data := cached.Data
	buf := e.busBuf[bus]

	for tf := tfMin; tf < tfMax; tf++ {
		sf := tf - begin
		if sf >= len(data) {
			break
		}
		src := data[sf]
		if len(src) == 0 {
			continue
		}
		for tc := range e.outputChannels {
			v := attack.In(sf, src[tc%len(src)]*a.Amplitude)
			if tf >= end {
				v = release.Out(tf-end+1, v)
			}
			buf[tf][tc] += v
		}
	}

	return nil
}

func (e *Engine) mixOutputBus() {
	for b := range e.busBuf {
		level := e.BusLevel(b)
		if level == 0 {
			continue
		}
		for f, frame := range e.busBuf[b] {
			for c, v := range frame {
				e.outBuf[f][c] += v * level
			}
		}
	}
}

func (e *Engine) applyLogarithmicDynamicRange() {
	for _, frame := range e.outBuf {
		utils.LogarithmicCompressionFrame(frame)
	}
}

// applyNormalization scales the whole window so its peak meets the
// normalization ceiling, boosting by no more than the boost threshold.
func (e *Engine) applyNormalization() {
	peak := utils.MaxAbs(e.outBuf, 0, len(e.outBuf), NormalizationGrain)
	if peak == 0 {
		return
	}
	ratio := min(e.cfg.NormalizationBoostThreshold, e.cfg.NormalizationCeiling/peak)
	for _, frame := range e.outBuf {
		for c := range frame {
			frame[c] *= ratio
		}
	}
}

// SetBusLevel sets the fader of a bus; it applies from the next mix.
func (e *Engine) SetBusLevel(bus int, level float64) {
	if bus < 0 || bus >= len(e.busBuf) {
		e.logger.Warn("bus level set for a bus that does not exist",
			slog.Int("bus", bus), slog.Int("totalBuses", len(e.busBuf)))
	}
	e.busLevel[bus] = level
}

// BusLevel returns the fader of a bus, 1.0 unless set.
func (e *Engine) BusLevel(bus int) float64 {
	if level, ok := e.busLevel[bus]; ok {
		return level
	}
	return 1.0
}

// BusNumber returns the bus of an instrument type, assigning the next
// unused bus on first sight. Assignments never change or get reused, so the
// numbering depends on the order in which types are first mixed.
func (e *Engine) BusNumber(t InstrumentType) int {
	if n, ok := e.busNumber[t]; ok {
		return n
	}
	n := len(e.busOrder)
	e.busNumber[t] = n
	e.busOrder = append(e.busOrder, t)
	return n
}

// BusAssignments lists instrument types by bus number.
func (e *Engine) BusAssignments() []InstrumentType {
	return append([]InstrumentType(nil), e.busOrder...)
}

func (e *Engine) State() State { return e.state }

// Pipe returns the output pipe consumers read rendered bytes from.
func (e *Engine) Pipe() *pipe.Pipe { return e.out }

func (e *Engine) Format() sample.Format { return e.format }

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) Compressor() *Compressor { return e.compressor }

func (e *Engine) TotalFrames() int { return e.totalFrames }

func (e *Engine) String() string {
	return fmt.Sprintf("%s{ outputChannels:%d, outputFrameRate:%d, outputFormat:%s, microsPerFrame:%g, totalFrames:%d }",
		e.cfg.LogPrefix, e.outputChannels, e.frameRate, e.format, e.microsPerFrame, e.totalFrames)
}
