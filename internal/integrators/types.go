// Package integrators advances ordinary differential equations along an
// independent variable s. In this module s is the path length a test
// particle has travelled (µm) and the state is its kinetic energy, but the
// steppers are generic over the state dimension.
package integrators

import (
	"math"
)

type State []float64

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is dX/ds = f(X, s).
type System interface {
	Derive(x State, s float64) State
}

// Func adapts a plain function to System.
type Func func(x State, s float64) State

func (f Func) Derive(x State, s float64) State { return f(x, s) }
