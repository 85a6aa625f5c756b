// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"encoding/binary"
	"math"
)

const (
	Signed8BitMax    = 0x80
	Signed16BitMax   = 0x8000
	Signed24BitMax   = 0x800000
	Signed32BitMax   = 0x80000000
	Unsigned8BitMax  = 0xff
	Unsigned16BitMax = 0xffff
)

// TypeOfOutput resolves d to a Format usable for rendering output.
func TypeOfOutput(d Descriptor) (Format, error) { return TypeOf(d, true) }

// TypeOfInput resolves d to a Format usable for reading source material.
func TypeOfInput(d Descriptor) (Format, error) { return TypeOf(d, false) }

// TypeOf maps a generic PCM descriptor to one of the supported formats.
// Unsigned encodings are only accepted for input.
func TypeOf(d Descriptor, isOutput bool) (Format, error) {
	fail := func() (Format, error) {
		return 0, &FormatError{BitDepth: d.BitDepth, Encoding: d.Encoding, Output: isOutput, Err: ErrUnsupportedFormat}
	}
	pick := func(le, be Format) Format {
		if d.BigEndian {
			return be
		}
		return le
	}

	switch d.BitDepth {
	case 8:
		switch {
		case !isOutput && d.Encoding == Unsigned:
			return U8, nil
		case d.Encoding == Signed:
			return S8, nil
		}
	case 16:
		switch {
		case !isOutput && d.Encoding == Unsigned:
			return pick(U16LE, U16BE), nil
		case d.Encoding == Signed:
			return pick(S16LE, S16BE), nil
		}
	case 24:
		if d.Encoding == Signed {
			return pick(S24LE, S24BE), nil
		}
	case 32:
		switch d.Encoding {
		case Signed:
			return pick(S32LE, S32BE), nil
		case Float:
			return pick(F32LE, F32BE), nil
		}
	case 64:
		if d.Encoding == Float {
			return pick(F64LE, F64BE), nil
		}
	}
	return fail()
}

type byteOrderer interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

func byteOrder(f Format) byteOrderer {
	if f.BigEndian() {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// quantize scales v by scale and clamps to the signed range
// [-scale, scale-1].
func quantize(v float64, scale float64) int64 {
	s := v * scale
	if s >= scale-1 {
		return int64(scale - 1)
	}
	if s <= -scale {
		return int64(-scale)
	}
	return int64(s)
}

// quantizeUnsigned offsets v by one full scale and clamps to [0, limit].
func quantizeUnsigned(v float64, scale float64, limit float64) uint64 {
	s := (v + 1) * scale
	if s >= limit {
		return uint64(limit)
	}
	if s <= 0 {
		return 0
	}
	return uint64(s)
}

// Encode converts v (nominally in [-1,1]) to its binary form in format f.
// An invalid format yields nil.
func Encode(v float64, f Format) []byte {
	if !f.valid() {
		return nil
	}
	return AppendEncoded(make([]byte, 0, f.BytesPerSample()), v, f)
}

// AppendEncoded appends the encoding of v in format f to dst.
func AppendEncoded(dst []byte, v float64, f Format) []byte {
	order := byteOrder(f)
	switch f {
	case U8:
		return append(dst, byte(quantizeUnsigned(v, Signed8BitMax, Unsigned8BitMax)))
	case S8:
		return append(dst, byte(int8(quantize(v, Signed8BitMax))))
	case U16LE, U16BE:
		return order.AppendUint16(dst, uint16(quantizeUnsigned(v, Signed16BitMax, Unsigned16BitMax)))
	case S16LE, S16BE:
		return order.AppendUint16(dst, uint16(int16(quantize(v, Signed16BitMax))))
	case S24LE:
		n := uint32(int32(quantize(v, Signed24BitMax)))
		return append(dst, byte(n), byte(n>>8), byte(n>>16))
	case S24BE:
		n := uint32(int32(quantize(v, Signed24BitMax)))
		return append(dst, byte(n>>16), byte(n>>8), byte(n))
	case S32LE, S32BE:
		return order.AppendUint32(dst, uint32(int32(quantize(v, Signed32BitMax))))
	case F32LE, F32BE:
		return order.AppendUint32(dst, math.Float32bits(float32(v)))
	case F64LE, F64BE:
		return order.AppendUint64(dst, math.Float64bits(v))
	}
	return dst
}

// Decode converts the leading bytes of b in format f back to a float value.
func Decode(b []byte, f Format) (float64, error) {
	if !f.valid() {
		return 0, &FormatError{Err: ErrUnsupportedFormat}
	}
	if len(b) < f.BytesPerSample() {
		return 0, &FormatError{BitDepth: f.BitDepth(), Encoding: f.encoding(), Err: ErrShortSample}
	}

	order := byteOrder(f)
	switch f {
	case U8:
		return float64(b[0])/Signed8BitMax - 1, nil
	case S8:
		return float64(int8(b[0])) / Signed8BitMax, nil
	case U16LE, U16BE:
		return float64(order.Uint16(b))/Signed16BitMax - 1, nil
	case S16LE, S16BE:
		return float64(int16(order.Uint16(b))) / Signed16BitMax, nil
	case S24LE:
		return float64(int24(b[2], b[1], b[0])) / Signed24BitMax, nil
	case S24BE:
		return float64(int24(b[0], b[1], b[2])) / Signed24BitMax, nil
	case S32LE, S32BE:
		return float64(int32(order.Uint32(b))) / Signed32BitMax, nil
	case F32LE, F32BE:
		return float64(math.Float32frombits(order.Uint32(b))), nil
	default:
		return math.Float64frombits(order.Uint64(b)), nil
	}
}

// int24 assembles a sign-extended 24-bit integer from its most to least
// significant bytes.
func int24(hi, mid, lo byte) int32 {
	return int32(uint32(hi)<<24|uint32(mid)<<16|uint32(lo)<<8) >> 8
}

func (f Format) encoding() Encoding {
	switch {
	case f.IsFloat():
		return Float
	case f.IsSigned():
		return Signed
	}
	return Unsigned
}

// EncodeFrames interleaves buf ([frame][channel]) into raw PCM bytes with no
// header.
func EncodeFrames(buf [][]float64, f Format) []byte {
	if len(buf) == 0 {
		return []byte{}
	}
	out := make([]byte, 0, len(buf)*len(buf[0])*f.BytesPerSample())
	for _, frame := range buf {
		for _, v := range frame {
			out = AppendEncoded(out, v, f)
		}
	}
	return out
}

// DecodeFrames is the inverse of EncodeFrames for a stream of the given
// channel count. A trailing partial frame is ignored.
func DecodeFrames(b []byte, f Format, channels int) ([][]float64, error) {
	if channels < 1 {
		return nil, &FormatError{BitDepth: f.BitDepth(), Encoding: f.encoding(), Err: ErrUnsupportedFormat}
	}
	width := f.BytesPerSample()
	frames := len(b) / (width * channels)
	out := make([][]float64, frames)
	for i := range frames {
		out[i] = make([]float64, channels)
		for c := range channels {
			off := (i*channels + c) * width
			v, err := Decode(b[off:off+width], f)
			if err != nil {
				return nil, err
			}
			out[i][c] = v
		}
	}
	return out, nil
}
