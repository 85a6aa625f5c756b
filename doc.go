// SPDX-License-Identifier: EPL-2.0

// Package audmix renders timed instrument picks into finished PCM audio.
//
// The work is split over a few packages:
//
//   - mixer: the engine. It places every active audio on its bus, applies
//     attack and release envelopes, sums the buses, tames the result with a
//     lookahead compressor and encodes it into a bounded output pipe.
//   - cache: loads source waveforms from disk or HTTP, decodes them and
//     converts them to the engine's rate and channel count.
//   - sample: the PCM codec for the fourteen supported sample formats.
//   - formats/wav, formats/aiff, formats/mp3, formats/vorbis: decoders, and
//     a streaming WAV writer.
//   - config: YAML settings and pick lists for the audmix command.
//
// # Quick Start
//
// Render two segments of picks into a WAV file:
//
//	cfg := mixer.DefaultConfig()
//	cfg.TotalSeconds = 4
//	cfg.ContentStoragePathPrefix = "/srv/audio"
//
//	engine, _ := mixer.New(cfg, cache.New())
//	out, _ := os.Create("out.wav")
//	defer out.Close()
//
//	seconds, err := audmix.RenderToWAV(ctx, engine, segments, out)
//
// Render streams: the engine produces into its pipe while the WAV writer
// drains it, so memory stays bounded by one segment plus the pipe.
package audmix
