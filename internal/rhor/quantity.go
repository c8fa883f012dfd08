package rhor

import (
	"fmt"
	"math"
)

// Quantity is a value with an asymmetric uncertainty. A NaN value means
// the quantity could not be computed.
type Quantity struct {
	Value float64
	Lower float64
	Upper float64
}

func Symmetric(value, sigma float64) Quantity {
	return Quantity{Value: value, Lower: sigma, Upper: sigma}
}

func NaN() Quantity {
	nan := math.NaN()
	return Quantity{Value: nan, Lower: nan, Upper: nan}
}

func (q Quantity) IsNaN() bool { return math.IsNaN(q.Value) }

// Scale multiplies value and uncertainties, for unit conversion.
func (q Quantity) Scale(f float64) Quantity {
	return Quantity{Value: q.Value * f, Lower: q.Lower * f, Upper: q.Upper * f}
}

func (q Quantity) String() string {
	if q.IsNaN() {
		return "NaN"
	}
	if q.Lower == q.Upper {
		return fmt.Sprintf("%.4g ± %.2g", q.Value, q.Lower)
	}
	return fmt.Sprintf("%.4g (-%.2g/+%.2g)", q.Value, q.Lower, q.Upper)
}
