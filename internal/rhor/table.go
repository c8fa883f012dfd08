package rhor

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/rhor/internal/interp"
)

// Sample is one row of an attenuation table.
type Sample struct {
	Rcm    float64 // cm
	Energy float64 // MeV
	RhoR   float64 // g/cm²
}

// Table maps shell radius to exit energy and areal density and back.
// It is immutable once built.
type Table struct {
	in      *Integrator
	samples []Sample

	energyOfRcm *interp.Linear
	rcmOfEnergy *interp.Linear
	rhoROfRcm   *interp.Linear
}

// BuildTable marches Rcm inward from the inner radius until the particle
// ranges out or the fuel volume would vanish.
func BuildTable(in *Integrator, num Numerics) (*Table, error) {
	if err := num.Validate(); err != nil {
		return nil, err
	}
	num = num.withDefaults()
	half := in.cfg.ShellThickness / 2

	var march []Sample
	r := in.cfg.InnerRadius
	for steps := 0; ; steps++ {
		if steps >= num.MaxTableSteps {
			return nil, fmt.Errorf("%w: no range-out after %d steps (Rcm=%g cm)", ErrNonConvergence, steps, r)
		}
		e, err := in.ExitEnergy(r)
		if err != nil {
			return nil, err
		}
		if e <= 0 {
			break
		}
		rhoR, err := in.ArealDensity(r)
		if err != nil {
			return nil, err
		}
		march = append(march, Sample{Rcm: r, Energy: e, RhoR: rhoR})

		dr := r / num.RadiusStepDivisor
		if r-dr <= half {
			break
		}
		r -= dr
	}

	// Reverse to ascending Rcm and drop the innermost point, which sits
	// on the range-out or collapse edge.
	samples := make([]Sample, 0, len(march))
	for i := len(march) - 2; i >= 0; i-- {
		samples = append(samples, march[i])
	}
	if len(samples) < 2 {
		return nil, fmt.Errorf("%w: only %d usable samples", ErrNonConvergence, len(samples))
	}
	return newTable(in, samples)
}

func newTable(in *Integrator, samples []Sample) (*Table, error) {
	n := len(samples)
	rcm := make([]float64, n)
	energy := make([]float64, n)
	rhoR := make([]float64, n)
	for i, s := range samples {
		rcm[i], energy[i], rhoR[i] = s.Rcm, s.Energy, s.RhoR
	}

	up := energy[n-1] > energy[0]
	for i := 1; i < n; i++ {
		if (up && !(energy[i] > energy[i-1])) || (!up && !(energy[i] < energy[i-1])) {
			return nil, fmt.Errorf("%w: E=%g MeV at Rcm=%g cm after E=%g MeV at Rcm=%g cm",
				ErrNonMonotone, energy[i], rcm[i], energy[i-1], rcm[i-1])
		}
	}

	t := &Table{in: in, samples: samples}
	var err error
	if t.energyOfRcm, err = interp.NewLinear(rcm, energy); err != nil {
		return nil, tableError(err)
	}
	if t.rcmOfEnergy, err = t.energyOfRcm.Inverse(); err != nil {
		return nil, tableError(err)
	}
	if t.rhoROfRcm, err = interp.NewLinear(rcm, rhoR); err != nil {
		return nil, tableError(err)
	}
	return t, nil
}

func tableError(err error) error {
	switch {
	case errors.Is(err, interp.ErrNotMonotone):
		return fmt.Errorf("%w: %v", ErrNonMonotone, err)
	case errors.Is(err, interp.ErrTooFewPoints):
		return fmt.Errorf("%w: %v", ErrNonConvergence, err)
	}
	return err
}

func lookup(l *interp.Linear, x float64, what string) (float64, error) {
	y, err := l.At(x)
	if err != nil {
		lo, hi := l.Domain()
		return math.NaN(), fmt.Errorf("%w: %s %g not in [%g, %g]", ErrOutOfRange, what, x, lo, hi)
	}
	return y, nil
}

// ExitEnergy interpolates the exit energy at rcm.
func (t *Table) ExitEnergy(rcm float64) (float64, error) {
	return lookup(t.energyOfRcm, rcm, "Rcm")
}

// ArealDensity interpolates the total areal density at rcm.
func (t *Table) ArealDensity(rcm float64) (float64, error) {
	return lookup(t.rhoROfRcm, rcm, "Rcm")
}

// RcmForEnergy inverts the table: the shell radius that lets the particle
// out with energy e.
func (t *Table) RcmForEnergy(e float64) (float64, error) {
	return lookup(t.rcmOfEnergy, e, "energy")
}

// ArealDensityForEnergy evaluates the closed-form areal density at the
// radius matching e.
func (t *Table) ArealDensityForEnergy(e float64) (float64, error) {
	rcm, err := t.RcmForEnergy(e)
	if err != nil {
		return math.NaN(), err
	}
	return t.in.ArealDensity(rcm)
}

// Domain is the closed Rcm interval covered by the table.
func (t *Table) Domain() (lo, hi float64) { return t.energyOfRcm.Domain() }

// EnergyDomain is the closed exit-energy interval covered by the table.
func (t *Table) EnergyDomain() (lo, hi float64) { return t.rcmOfEnergy.Domain() }

func (t *Table) Len() int { return len(t.samples) }

// Samples returns a copy of the rows in ascending Rcm.
func (t *Table) Samples() []Sample {
	out := make([]Sample, len(t.samples))
	copy(out, t.samples)
	return out
}
