// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"fmt"
	"strings"
)

// Format identifies one of the supported PCM sample layouts.
type Format int

const (
	U8 Format = iota
	S8
	U16LE
	U16BE
	S16LE
	S16BE
	S24LE
	S24BE
	S32LE
	S32BE
	F32LE
	F32BE
	F64LE
	F64BE
)

// Formats lists every supported variant, in declaration order.
var Formats = []Format{
	U8, S8,
	U16LE, U16BE,
	S16LE, S16BE,
	S24LE, S24BE,
	S32LE, S32BE,
	F32LE, F32BE,
	F64LE, F64BE,
}

var formatNames = [...]string{
	U8:    "U8",
	S8:    "S8",
	U16LE: "U16LE",
	U16BE: "U16BE",
	S16LE: "S16LE",
	S16BE: "S16BE",
	S24LE: "S24LE",
	S24BE: "S24BE",
	S32LE: "S32LE",
	S32BE: "S32BE",
	F32LE: "F32LE",
	F32BE: "F32BE",
	F64LE: "F64LE",
	F64BE: "F64BE",
}

func (f Format) String() string {
	if !f.valid() {
		return "Format(?)"
	}
	return formatNames[f]
}

func (f Format) valid() bool {
	return f >= U8 && f <= F64BE
}

// BitDepth returns the number of bits per encoded sample.
func (f Format) BitDepth() int {
	switch f {
	case U8, S8:
		return 8
	case U16LE, U16BE, S16LE, S16BE:
		return 16
	case S24LE, S24BE:
		return 24
	case S32LE, S32BE, F32LE, F32BE:
		return 32
	case F64LE, F64BE:
		return 64
	}
	return 0
}

// BytesPerSample returns the encoded width of one sample of one channel.
func (f Format) BytesPerSample() int { return f.BitDepth() / 8 }

func (f Format) IsFloat() bool {
	return f == F32LE || f == F32BE || f == F64LE || f == F64BE
}

func (f Format) IsSigned() bool {
	return f != U8 && f != U16LE && f != U16BE
}

// BigEndian reports the byte order of multi-byte formats. Single byte
// formats report false.
func (f Format) BigEndian() bool {
	switch f {
	case U16BE, S16BE, S24BE, S32BE, F32BE, F64BE:
		return true
	}
	return false
}

// Encoding of a PCM stream, as carried by a Descriptor.
type Encoding int

const (
	Signed Encoding = iota
	Unsigned
	Float
)

func (e Encoding) String() string {
	switch e {
	case Signed:
		return "signed"
	case Unsigned:
		return "unsigned"
	case Float:
		return "float"
	}
	return "unknown"
}

// ParseEncoding is the inverse of Encoding.String.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "signed", "":
		return Signed, nil
	case "unsigned":
		return Unsigned, nil
	case "float":
		return Float, nil
	}
	return 0, fmt.Errorf("%w: encoding %q", ErrUnsupportedFormat, s)
}

func (e Encoding) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *Encoding) UnmarshalText(b []byte) error {
	v, err := ParseEncoding(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Descriptor describes a PCM stream: channel count, frame rate, bit depth,
// encoding and byte order.
type Descriptor struct {
	Channels  int      `yaml:"channels"`
	FrameRate int      `yaml:"frame_rate"`
	BitDepth  int      `yaml:"bit_depth"`
	Encoding  Encoding `yaml:"encoding"`
	BigEndian bool     `yaml:"big_endian"`
}

// FrameSize returns the number of bytes of one interleaved frame.
func (d Descriptor) FrameSize() int {
	return d.Channels * d.BitDepth / 8
}
