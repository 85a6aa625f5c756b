// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming primitives used to turn decoded
// source material into frames the mixer can place.
//
// This package contains:
//   - Source interface for audio input
//   - Resampler for sample rate conversion
//   - ChannelMapper for changing the channel count
//   - Conform and ReadFrames to build and drain a pipeline
//   - Format registry mapping file extensions to decoders
//
// # Source Interface
//
// The Source interface is the foundation of audio processing:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders and processors all implement it, so they chain into pipelines.
// Samples are interleaved float32, nominally in [-1.0, 1.0].
//
// # Resampling
//
// The Resampler changes the sample rate using cubic interpolation. When
// downsampling it also runs a one-pole lowpass over the source to reduce
// aliasing. Resampling to the source's own rate is an exact copy.
//
//	resampler := audio.NewResampler(source, 48000)
//
// # Channel Mapping
//
// The ChannelMapper averages down to mono; for any other target it picks
// source channel c % sourceChannels, so mono duplicates across stereo:
//
//	stereo, err := audio.NewChannelMapper(source, 2)
//
// # Conforming Sources
//
// Conform adds a Resampler and a ChannelMapper only where needed, and
// ReadFrames drains the result into [frame][channel] values:
//
//	src, err := audio.Conform(decoded, 48000, 2)
//	frames, err := audio.ReadFrames(src, 4096)
//
// # Format Registry
//
// The registry resolves decoders by extension or by file name and URL:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, ok := registry.Lookup("drums/kick.WAV?v=2")
//
// # Error Handling
//
// Sources return io.EOF when no more data is available. Other errors
// indicate problems with the source or processing:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    // Process n samples from buf first
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
