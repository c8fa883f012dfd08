package stopping

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/rhor/internal/integrators"
)

// CGS constants.
const (
	elementaryCharge = 4.80320471e-10 // statC
	hbar             = 1.054571817e-27
	ergPerMeV        = 1.602176634e-6
	ergPerKeV        = 1.602176634e-9
	cmPerMicron      = 1e-4
)

const (
	plasmaMinEnergy = 0.1  // MeV
	plasmaMaxEnergy = 40.0 // MeV, non-relativistic treatment
	pathTolerance   = 1e-7
	defaultMaxSteps = 100000
	maxEnergyStep   = 0.02 // fractional energy change allowed per fixed step
)

// Plasma is fully ionized plasma stopping: the Chandrasekhar velocity
// function G(x) summed over every field species with its own Coulomb
// logarithm, screened at the Debye length of the whole field.
type Plasma struct {
	// Method is "rk45" (adaptive, the default) or "rk4" (fixed steps sized
	// from the local loss rate).
	Method string
	// MaxSteps caps the steps of one path integration. Zero means 100000.
	MaxSteps int
}

func (p Plasma) Name() string {
	if p.Method == "rk4" {
		return "plasma-rk4"
	}
	return "plasma"
}

type plasmaSpecies struct {
	mass   float64 // g
	z      float64
	thermV float64 // thermal speed squared, 2T/m
	wp2    float64 // plasma frequency squared
}

type plasmaCalc struct {
	mt       float64 // test mass, g
	zt       float64
	lambdaD  float64
	species  []plasmaSpecies
	method   string
	maxSteps int
}

func (p Plasma) New(test Particle, field Field) (Calculator, error) {
	switch p.Method {
	case "", "rk45", "rk4":
	default:
		return nil, fmt.Errorf("stopping: unknown plasma integration method %q", p.Method)
	}
	if !(test.A > 0) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParticle, test.Name)
	}
	if p.MaxSteps < 0 {
		return nil, fmt.Errorf("stopping: plasma step cap must be non-negative, got %d", p.MaxSteps)
	}

	c := &plasmaCalc{
		mt:       test.A * AmuGrams,
		zt:       test.Z,
		method:   p.Method,
		maxSteps: p.MaxSteps,
	}
	if c.maxSteps == 0 {
		c.maxSteps = defaultMaxSteps
	}
	e2 := elementaryCharge * elementaryCharge
	invDebye2 := 0.0
	for _, s := range field.species {
		t := s.T * ergPerKeV
		m := s.A * AmuGrams
		invDebye2 += 4 * math.Pi * s.N * s.Z * s.Z * e2 / t
		c.species = append(c.species, plasmaSpecies{
			mass:   m,
			z:      s.Z,
			thermV: 2 * t / m,
			wp2:    4 * math.Pi * s.N * s.Z * s.Z * e2 / m,
		})
	}
	if invDebye2 > 0 {
		c.lambdaD = 1 / math.Sqrt(invDebye2)
	}
	return c, nil
}

func (c *plasmaCalc) MinEnergy() float64 { return plasmaMinEnergy }
func (c *plasmaCalc) MaxEnergy() float64 { return plasmaMaxEnergy }

func (c *plasmaCalc) LossRate(e float64) float64 {
	if !(e > 0) || len(c.species) == 0 {
		return 0
	}
	e2 := elementaryCharge * elementaryCharge
	vt2 := 2 * e * ergPerMeV / c.mt

	sum := 0.0
	for _, s := range c.species {
		x := vt2 / s.thermV
		sx := math.Sqrt(x / math.Pi)
		ex := math.Exp(-x)
		mu := math.Erf(math.Sqrt(x)) - 2*sx*ex
		dmu := 2 * sx * ex

		mr := c.mt * s.mass / (c.mt + s.mass)
		u2 := vt2 + s.thermV
		bClassical := math.Abs(c.zt*s.z) * e2 / (mr * u2)
		bQuantum := hbar / (2 * mr * math.Sqrt(u2))
		lnL := math.Log(c.lambdaD / math.Max(bClassical, bQuantum))
		if lnL < 1 {
			lnL = 1
		}

		g := mu - (s.mass/c.mt)*(dmu-(mu+dmu)/lnL)
		sum += s.wp2 * g * lnL
	}

	dEdx := c.zt * c.zt * e2 / vt2 * sum // erg/cm
	rate := dEdx / ergPerMeV * cmPerMicron
	if rate < 0 || math.IsNaN(rate) {
		return 0
	}
	return rate
}

func (c *plasmaCalc) ExitEnergy(e, path float64) float64 {
	if e <= plasmaMinEnergy {
		return 0
	}
	if !(path > 0) {
		return e
	}
	rate := c.LossRate(e)
	if rate == 0 {
		return e
	}

	sys := integrators.Func(func(x integrators.State, s float64) integrators.State {
		return integrators.State{-c.LossRate(x[0])}
	})
	if c.method == "rk4" {
		return c.walkFixed(sys, e, path)
	}
	return c.walkAdaptive(sys, e, path, math.Min(path, maxEnergyStep*e/rate))
}

func (c *plasmaCalc) walkAdaptive(sys integrators.System, e, path, ds float64) float64 {
	rk := integrators.NewRK45()
	x := integrators.State{e}
	s := 0.0
	minStep := path * 1e-12

	for i := 0; s < path; i++ {
		if i >= c.maxSteps {
			return math.NaN()
		}
		if ds > path-s {
			ds = path - s
		}
		next, dsNew, err := rk.StepAdaptive(sys, x, s, ds, pathTolerance)
		if errors.Is(err, integrators.ErrStepRejected) && dsNew > minStep {
			ds = dsNew
			continue
		}
		if err != nil {
			next = rk.Step(sys, x, s, ds)
		}
		s += ds
		x = next
		ds = dsNew
		if x[0] <= plasmaMinEnergy {
			return 0
		}
	}
	return x[0]
}

func (c *plasmaCalc) walkFixed(sys integrators.System, e, path float64) float64 {
	rk := integrators.NewRK4()
	x := integrators.State{e}
	s := 0.0

	for i := 0; s < path; i++ {
		if i >= c.maxSteps {
			return math.NaN()
		}
		rate := c.LossRate(x[0])
		if rate == 0 {
			return x[0]
		}
		ds := math.Min(path-s, maxEnergyStep*x[0]/rate)
		x = rk.Step(sys, x, s, ds)
		s += ds
		if x[0] <= plasmaMinEnergy {
			return 0
		}
	}
	return x[0]
}
