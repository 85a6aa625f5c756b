// SPDX-License-Identifier: EPL-2.0

package envelope

import (
	"math"
	"testing"
)

func TestEnvelope_Boundaries(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 2, 48, 480, 4800} {
		env := New(n)
		const v = 0.8

		if got := env.In(-1, v); got != 0 {
			t.Errorf("New(%d).In(-1) = %v, want 0", n, got)
		}
		if got := env.In(n, v); got != v {
			t.Errorf("New(%d).In(N) = %v, want %v", n, got, v)
		}
		if got := env.Out(0, v); got != v {
			t.Errorf("New(%d).Out(0) = %v, want %v", n, got, v)
		}
		if got := env.Out(n+1, v); got != 0 {
			t.Errorf("New(%d).Out(N+1) = %v, want 0", n, got)
		}
	}
}

func TestEnvelope_Curve(t *testing.T) {
	t.Parallel()

	const n = 100
	env := New(n)

	if env.Len() != n {
		t.Fatalf("Len() = %d, want %d", env.Len(), n)
	}
	if got := env.In(0, 1); got != 0 {
		t.Errorf("In(0) = %v, want 0", got)
	}

	want := math.Sin(math.Pi / 2 * 50 / n)
	if got := env.In(50, 1); math.Abs(got-want) > 1e-12 {
		t.Errorf("In(50) = %v, want %v", got, want)
	}

	prev := -1.0
	for d := 0; d < n; d++ {
		got := env.In(d, 1)
		if got <= prev {
			t.Fatalf("In(%d) = %v not increasing (prev %v)", d, got, prev)
		}
		prev = got
	}
}

func TestEnvelope_OutMirrorsIn(t *testing.T) {
	t.Parallel()

	const n = 64
	env := New(n)

	for d := 1; d <= n; d++ {
		if got, want := env.Out(d, 1), env.In(n-d, 1); got != want {
			t.Errorf("Out(%d) = %v, want %v", d, got, want)
		}
	}
	if got := env.Out(n, 1); got != 0 {
		t.Errorf("Out(N) = %v, want 0 (fully released)", got)
	}
}

func TestNew_NegativeLength(t *testing.T) {
	t.Parallel()

	env := New(-5)
	if env.Len() != 0 {
		t.Errorf("Len() = %d, want 0", env.Len())
	}
	if got := env.In(0, 0.5); got != 0.5 {
		t.Errorf("In(0) = %v, want 0.5", got)
	}
}

func TestProvider_Memoises(t *testing.T) {
	t.Parallel()

	p := NewProvider()
	a := p.Length(480)
	b := p.Length(480)
	if a != b {
		t.Error("Length() returned different envelopes for the same length")
	}
	if c := p.Length(960); c == a || c.Len() != 960 {
		t.Errorf("Length(960) = %d frames, want a distinct 960-frame envelope", c.Len())
	}
}
