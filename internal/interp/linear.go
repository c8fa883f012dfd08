// Package interp provides piecewise-linear interpolation over strictly
// monotone samples. Unlike a lookup table that wraps or clamps, queries
// outside the sampled domain fail with ErrOutOfRange.
package interp

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrTooFewPoints   = errors.New("interp: need at least two points")
	ErrLengthMismatch = errors.New("interp: x and y lengths differ")
	ErrNotMonotone    = errors.New("interp: abscissae are not strictly monotone")
	ErrOutOfRange     = errors.New("interp: point outside table domain")
)

// Linear interpolates y(x). The abscissae are stored ascending.
type Linear struct {
	xs []float64
	ys []float64
}

// NewLinear copies the samples. xs may be strictly increasing or strictly
// decreasing.
func NewLinear(xs, ys []float64) (*Linear, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(xs))
	}

	l := &Linear{xs: make([]float64, len(xs)), ys: make([]float64, len(ys))}
	copy(l.xs, xs)
	copy(l.ys, ys)
	if l.xs[0] > l.xs[len(l.xs)-1] {
		reverse(l.xs)
		reverse(l.ys)
	}

	for i := range l.xs {
		if math.IsNaN(l.xs[i]) || math.IsNaN(l.ys[i]) {
			return nil, fmt.Errorf("%w: NaN at sample %d", ErrNotMonotone, i)
		}
		if i > 0 && !(l.xs[i] > l.xs[i-1]) {
			return nil, fmt.Errorf("%w: x[%d]=%g after %g", ErrNotMonotone, i, l.xs[i], l.xs[i-1])
		}
	}
	return l, nil
}

func reverse(v []float64) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}

// At returns y(x) for x inside the closed domain.
func (l *Linear) At(x float64) (float64, error) {
	lo, hi := l.Domain()
	if !(x >= lo && x <= hi) {
		return math.NaN(), fmt.Errorf("%w: %g not in [%g, %g]", ErrOutOfRange, x, lo, hi)
	}

	i := sort.SearchFloat64s(l.xs, x)
	if i == 0 {
		return l.ys[0], nil
	}
	x0, x1 := l.xs[i-1], l.xs[i]
	frac := (x - x0) / (x1 - x0)
	return l.ys[i-1]*(1-frac) + l.ys[i]*frac, nil
}

// Domain is the closed interval of valid abscissae.
func (l *Linear) Domain() (lo, hi float64) {
	return l.xs[0], l.xs[len(l.xs)-1]
}

// Inverse swaps the roles of x and y. It fails unless y is strictly monotone.
func (l *Linear) Inverse() (*Linear, error) {
	return NewLinear(l.ys, l.xs)
}

func (l *Linear) Len() int { return len(l.xs) }
