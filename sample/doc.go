// SPDX-License-Identifier: EPL-2.0

// Package sample converts between normalized floating point sample values
// and their binary PCM representation.
//
// Fourteen layouts are supported:
//
//	U8  S8
//	U16LE U16BE  S16LE S16BE
//	S24LE S24BE
//	S32LE S32BE  F32LE F32BE
//	F64LE F64BE
//
// Integer formats scale by the signed maximum of their width (S16 uses
// 32768); unsigned formats are offset by one full scale so that 0.0 maps to
// the midpoint. Values beyond full scale are clamped rather than wrapped.
// Float formats store the value unchanged.
//
// A generic stream description is resolved to a Format with TypeOf:
//
//	f, err := sample.TypeOfOutput(sample.Descriptor{
//	    Channels:  2,
//	    FrameRate: 48000,
//	    BitDepth:  16,
//	    Encoding:  sample.Signed,
//	})
//	b := sample.Encode(0.5, f)
//
// Unsigned layouts are accepted for input only; rendering never produces
// them. Unsupported combinations fail with a *FormatError that matches
// ErrUnsupportedFormat under errors.Is.
package sample
