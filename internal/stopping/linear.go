package stopping

import (
	"fmt"
	"math"
)

// Constant loses Rate MeV per µm whatever the medium. It is the simplest
// possible model and is mainly useful as a test double.
type Constant struct {
	Rate float64 // MeV/µm
}

func (c Constant) Name() string { return "constant" }

func (c Constant) New(test Particle, field Field) (Calculator, error) {
	if c.Rate < 0 || math.IsNaN(c.Rate) {
		return nil, fmt.Errorf("stopping: constant rate must be non-negative, got %g", c.Rate)
	}
	return linearCalc{rate: c.Rate}, nil
}

// Proportional loses Coefficient MeV per mg/cm² of traversed material.
type Proportional struct {
	Coefficient float64 // MeV per mg/cm²
}

func (p Proportional) Name() string { return "proportional" }

func (p Proportional) New(test Particle, field Field) (Calculator, error) {
	if p.Coefficient < 0 || math.IsNaN(p.Coefficient) {
		return nil, fmt.Errorf("stopping: proportional coefficient must be non-negative, got %g", p.Coefficient)
	}
	// g/cm³ × 1e-4 cm/µm × 1e3 mg/g
	return linearCalc{rate: p.Coefficient * field.MassDensity() * 0.1}, nil
}

type linearCalc struct {
	rate float64
}

func (l linearCalc) ExitEnergy(e, path float64) float64 {
	out := e - l.rate*path
	if out <= 0 {
		return 0
	}
	return out
}

func (l linearCalc) LossRate(e float64) float64 { return l.rate }
func (l linearCalc) MinEnergy() float64         { return 0 }
func (l linearCalc) MaxEnergy() float64         { return math.Inf(1) }
