// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes uncompressed AIFF files with github.com/go-audio/aiff.
//
// 8, 16, 24 and 32-bit big-endian PCM are supported; compressed AIFF-C is
// not. Samples are normalized to [-1,1) by the file's bit depth:
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrUnsupportedBitDepth) {
//	    // 12-bit or compressed material
//	}
//
// The go-audio decoder needs to seek, so plain readers are buffered in
// memory first.
package aiff
