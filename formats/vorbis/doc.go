// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams with github.com/jfreymuth/oggvorbis.
//
// The decoder works on float32 internally, so samples are passed through
// without conversion. Reads are trimmed to whole frames.
//
//	src, err := vorbis.Decoder{}.Decode(file)
package vorbis
