// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE files.
//
// # Decoding
//
// Decoder parses the container with github.com/go-audio/wav and decodes
// the data chunk with the sample codec, so it accepts 8-bit unsigned,
// 16/24/32-bit signed and 32/64-bit IEEE float files:
//
//	src, err := wav.Decoder{}.Decode(file)
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// # Writing rendered PCM
//
// Writer wraps bytes that are already encoded, such as the output of a
// mixer, in a WAV container. Sizes are patched when it is closed:
//
//	w, err := wav.NewWriter(file, sample.Descriptor{Channels: 2, FrameRate: 48000, BitDepth: 16, Encoding: sample.Signed})
//	_, err = io.Copy(w, renderedPCM)
//	err = w.Close()
//
// Encode is the other way around: it takes [frame][channel] values and
// writes them through the go-audio encoder.
//
// # Errors
//
//   - ErrNotWavFile: the input has no RIFF/WAVE header
//   - ErrUnsupportedWavLayout: the chunks or sizes cannot be handled
//   - ErrUnsupportedEncoding: the sample format has no WAV form
package wav
