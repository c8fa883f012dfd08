package interp

import (
	"errors"
	"math"
	"testing"
)

func TestLinearAt(t *testing.T) {
	l, err := NewLinear([]float64{0, 1, 3}, []float64{0, 10, 30})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	tests := []struct {
		x, want float64
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
		{2, 20},
		{3, 30},
	}
	for _, tt := range tests {
		got, err := l.At(tt.x)
		if err != nil {
			t.Fatalf("At(%g): %v", tt.x, err)
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("At(%g): expected %g, got %g", tt.x, tt.want, got)
		}
	}
}

func TestLinearDecreasingInput(t *testing.T) {
	l, err := NewLinear([]float64{3, 2, 1}, []float64{1, 4, 9})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	lo, hi := l.Domain()
	if lo != 1 || hi != 3 {
		t.Errorf("expected domain [1, 3], got [%g, %g]", lo, hi)
	}
	got, _ := l.At(2.5)
	if math.Abs(got-2.5) > 1e-12 {
		t.Errorf("expected 2.5, got %g", got)
	}
}

func TestLinearOutOfRange(t *testing.T) {
	l, _ := NewLinear([]float64{1, 2}, []float64{1, 2})

	for _, x := range []float64{0.999, 2.001, math.NaN(), math.Inf(1)} {
		v, err := l.At(x)
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("At(%g): expected ErrOutOfRange, got %v", x, err)
		}
		if !math.IsNaN(v) {
			t.Errorf("At(%g): expected NaN value, got %g", x, v)
		}
	}
}

func TestLinearRejectsBadSamples(t *testing.T) {
	tests := []struct {
		name   string
		xs, ys []float64
		want   error
	}{
		{"one point", []float64{1}, []float64{1}, ErrTooFewPoints},
		{"mismatch", []float64{1, 2}, []float64{1}, ErrLengthMismatch},
		{"repeat", []float64{1, 1, 2}, []float64{1, 2, 3}, ErrNotMonotone},
		{"zigzag", []float64{1, 3, 2}, []float64{1, 2, 3}, ErrNotMonotone},
		{"nan", []float64{1, math.NaN()}, []float64{1, 2}, ErrNotMonotone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLinear(tt.xs, tt.ys); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestInverseRoundTrip(t *testing.T) {
	xs := []float64{0.01, 0.02, 0.04, 0.08}
	ys := []float64{2, 6, 9, 13}
	fwd, _ := NewLinear(xs, ys)
	inv, err := fwd.Inverse()
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}

	for _, x := range []float64{0.015, 0.03, 0.07} {
		y, _ := fwd.At(x)
		back, err := inv.At(y)
		if err != nil {
			t.Fatalf("inverse At(%g): %v", y, err)
		}
		if math.Abs(back-x) > 1e-12 {
			t.Errorf("round trip %g -> %g -> %g", x, y, back)
		}
	}
}

func TestSamplesAreCopied(t *testing.T) {
	xs := []float64{1, 2}
	ys := []float64{1, 2}
	l, _ := NewLinear(xs, ys)
	ys[1] = 100

	got, _ := l.At(2)
	if got != 2 {
		t.Errorf("expected interpolant to be unaffected by caller mutation, got %g", got)
	}
}
