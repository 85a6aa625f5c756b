// SPDX-License-Identifier: EPL-2.0

package cache

import "errors"

var (
	ErrNotFound             = errors.New("audio source not found")
	ErrUnsupportedExtension = errors.New("no decoder for audio extension")
	ErrFetch                = errors.New("fetching audio failed")
)
