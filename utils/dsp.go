// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// LogarithmicCompression bends amplitude towards full scale instead of
// clipping it. Quiet values pass almost unchanged (slope 1 at zero); louder
// values are squeezed along ln(1+|v|), preserving sign.
func LogarithmicCompression(v float64) float64 {
	if v < 0 {
		return -math.Log1p(-v)
	}
	return math.Log1p(v)
}

// LogarithmicCompressionFrame applies LogarithmicCompression to every
// channel of a frame in place.
func LogarithmicCompressionFrame(frame []float64) {
	for c, v := range frame {
		frame[c] = LogarithmicCompression(v)
	}
}

// MaxAbs returns the peak absolute value of buf ([frame][channel]) between
// frames from (inclusive) and to (exclusive), looking only at every grain'th
// frame. The range is clipped to the buffer.
func MaxAbs(buf [][]float64, from, to, grain int) float64 {
	grain = max(grain, 1)
	from = max(from, 0)
	to = min(to, len(buf))

	var peak float64
	for i := from; i < to; i += grain {
		for _, v := range buf[i] {
			peak = max(peak, math.Abs(v))
		}
	}
	return peak
}

// Limit clamps v to [lo, hi].
func Limit(lo, hi, v float64) float64 {
	return max(lo, min(hi, v))
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// CatmullRom evaluates the Catmull-Rom spline through p1 and p2 at t in
// [0,1], with p0 and p3 as the neighbouring control points. It returns p1
// at t=0 and p2 at t=1.
func CatmullRom(p0, p1, p2, p3, t float32) float32 {
	c3 := 0.5 * (3*(p1-p2) + p3 - p0)
	c2 := p0 - 2.5*p1 + 2*p2 - 0.5*p3
	c1 := 0.5 * (p2 - p0)
	return ((c3*t+c2)*t+c1)*t + p1
}
