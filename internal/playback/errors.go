// SPDX-License-Identifier: EPL-2.0

package playback

import "errors"

var (
	ErrClosed       = errors.New("player closed")
	ErrDeviceLayout = errors.New("audio device layout mismatch")
)
