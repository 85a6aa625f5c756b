// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig = errors.New("invalid mixer configuration")
	ErrMix           = errors.New("mix failed")
	ErrBusOverflow   = errors.New("more instrument types than buses")
	ErrInvalidActive = errors.New("invalid active audio")
	ErrNilAudioCache = errors.New("audio cache is required")
)

// ConfigError reports an invalid Config. It is only ever returned while
// building an engine, never during a mix.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// MixError reports a failure during one mix. AudioID names the source that
// caused it, when known.
type MixError struct {
	AudioID string
	Err     error
}

func (e *MixError) Error() string {
	if e.AudioID == "" {
		return fmt.Sprintf("%v: %v", ErrMix, e.Err)
	}
	return fmt.Sprintf("%v: failed to apply source[%s]: %v", ErrMix, e.AudioID, e.Err)
}

func (e *MixError) Unwrap() []error { return []error{ErrMix, e.Err} }
