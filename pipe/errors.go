// SPDX-License-Identifier: EPL-2.0

package pipe

import "errors"

var (
	ErrClosed = errors.New("pipe closed")
)
