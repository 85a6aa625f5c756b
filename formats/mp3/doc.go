// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG audio layer III with github.com/hajimehoshi/go-mp3.
//
// The decoder always yields stereo: mono files come out with both channels
// equal. Downmix with audio.NewChannelMapper when mono is needed.
//
//	src, err := mp3.Decoder{}.Decode(file)
//	mono, err := audio.NewChannelMapper(src, 1)
package mp3
