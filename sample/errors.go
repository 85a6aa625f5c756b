// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported PCM format")
	ErrShortSample       = errors.New("not enough bytes for sample")
)

// FormatError reports a PCM layout that cannot be resolved or decoded.
type FormatError struct {
	BitDepth int
	Encoding Encoding
	Output   bool
	Err      error
}

func (e *FormatError) Error() string {
	kind := ""
	if e.Output {
		kind = "output "
	}
	return fmt.Sprintf("%d-bit %s%s: %v", e.BitDepth, kind, e.Encoding, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
