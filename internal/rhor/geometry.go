package rhor

import (
	"fmt"
	"math"

	"github.com/san-kum/rhor/internal/material"
	"github.com/san-kum/rhor/internal/stopping"
)

const (
	atmDyne      = 1.01325e6    // dyn/cm² per atm
	boltzmannErg = 1.380649e-16 // erg/K
	fillKelvin   = 293.15

	umPerCm = 1e4

	bisectIterations = 200
)

var (
	deuterium = mustAtom("D")
	helium3   = mustAtom("3He")
)

func mustAtom(symbol string) material.Atom {
	a, ok := material.LookupAtom(symbol)
	if !ok {
		panic("rhor: missing atom " + symbol)
	}
	return a
}

// masses holds the quantities of a configuration that do not depend on Rcm.
type masses struct {
	shell material.Composition

	fracD   float64 // normalized D₂ molecule fraction
	frac3He float64

	fillUnitMass float64 // g per fill particle (D₂ molecule or ³He atom)

	gas     float64 // g
	mix     float64
	dense   float64 // remaining shell mass left for the compressed shell
	ablated float64

	rampLength float64 // L·ln(ρmax/ρmin), cm
}

func fourThirdsPi(r float64) float64 { return 4 * math.Pi / 3 * r * r * r }

func newMasses(cfg ShellConfiguration) (masses, error) {
	shell, err := material.Parse(cfg.ShellMaterial)
	if err != nil {
		return masses{}, &FieldError{Field: "shell_material", Value: cfg.ShellMaterial, Reason: "unparsable", Err: err}
	}
	m := masses{shell: shell}

	sum := cfg.FractionD + cfg.Fraction3He
	m.fracD = cfg.FractionD / sum
	m.frac3He = cfg.Fraction3He / sum
	m.fillUnitMass = (m.fracD*2*deuterium.A + m.frac3He*helium3.A) * stopping.AmuGrams

	n0 := cfg.FillPressure * atmDyne / (boltzmannErg * fillKelvin)
	m.gas = n0 * m.fillUnitMass * fourThirdsPi(cfg.InnerRadius)
	m.mix = cfg.MixFraction * m.gas

	initial := (fourThirdsPi(cfg.OuterRadius) - fourThirdsPi(cfg.InnerRadius)) * shell.Density()
	m.dense = cfg.MassRemaining*initial - m.mix
	if m.dense < 0 {
		return masses{}, &FieldError{
			Field:  "mix_fraction",
			Value:  cfg.MixFraction,
			Reason: fmt.Sprintf("mix mass %.3g g exceeds remaining shell mass %.3g g", m.mix, cfg.MassRemaining*initial),
		}
	}
	m.ablated = (1 - cfg.MassRemaining) * initial
	m.rampLength = cfg.AblatedScaleLength * math.Log(cfg.AblatedDensityMax/cfg.AblatedDensityMin)
	return m, nil
}

// Geometry is the compressed state of the capsule at one shell radius.
// Radii in cm, densities in g/cm³.
type Geometry struct {
	Rcm        float64
	FuelRadius float64 // Rcm - T/2
	ShellOuter float64 // Rcm + T/2, start of the ablated ramp
	RampLength float64 // r2 - r1
	RampEnd    float64 // r2
	TailEnd    float64 // r3

	GasDensity   float64
	MixDensity   float64
	ShellDensity float64

	// Ion number densities of the fuel, cm⁻³.
	DeuteronDensity float64
	Helion3Density  float64
}

// geometry places the shell at rcm and redistributes the masses.
func (in *Integrator) geometry(rcm float64) (Geometry, error) {
	cfg := in.cfg
	half := cfg.ShellThickness / 2
	if math.IsNaN(rcm) || rcm <= 0 {
		return Geometry{}, fmt.Errorf("%w: Rcm must be positive, got %g", ErrPrecondition, rcm)
	}
	if rcm <= half {
		return Geometry{}, fmt.Errorf("%w: Rcm %g cm leaves no fuel inside a %g cm shell", ErrPrecondition, rcm, cfg.ShellThickness)
	}

	g := Geometry{
		Rcm:        rcm,
		FuelRadius: rcm - half,
		ShellOuter: rcm + half,
	}
	fuelVolume := fourThirdsPi(g.FuelRadius)
	g.GasDensity = in.m.gas / fuelVolume
	g.MixDensity = in.m.mix / fuelVolume
	g.ShellDensity = in.m.dense / (fourThirdsPi(g.ShellOuter) - fuelVolume)

	particles := g.GasDensity / in.m.fillUnitMass
	g.DeuteronDensity = 2 * in.m.fracD * particles
	g.Helion3Density = in.m.frac3He * particles

	g.RampLength, g.TailEnd = in.corona(g.ShellOuter)
	g.RampEnd = g.ShellOuter + g.RampLength
	return g, nil
}

// rampMass is the mass held by the density ramp ρmax·exp(-(r-r1)/L)
// between r1 and r1+d.
func (in *Integrator) rampMass(r1, d float64) float64 {
	L := in.cfg.AblatedScaleLength
	r2 := r1 + d
	inner := r1*r1 + 2*L*r1 + 2*L*L
	outer := math.Exp(-d/L) * (r2*r2 + 2*L*r2 + 2*L*L)
	return 4 * math.Pi * in.cfg.AblatedDensityMax * L * (inner - outer)
}

// corona returns the ramp length and the outer tail radius for a ramp
// starting at r1. When the ablated mass cannot fill the whole ramp the
// ramp is cut where its mass runs out and there is no tail.
func (in *Integrator) corona(r1 float64) (ramp, tailEnd float64) {
	total := in.m.ablated
	if total <= 0 {
		return 0, r1
	}
	full := in.m.rampLength
	held := in.rampMass(r1, full)
	if held >= total {
		lo, hi := 0.0, full
		for i := 0; i < bisectIterations && hi-lo > 1e-15*full; i++ {
			mid := (lo + hi) / 2
			if in.rampMass(r1, mid) < total {
				lo = mid
			} else {
				hi = mid
			}
		}
		d := (lo + hi) / 2
		return d, r1 + d
	}
	r2 := r1 + full
	tail := total - held
	return full, math.Cbrt(r2*r2*r2 + 3*tail/(4*math.Pi*in.cfg.AblatedDensityMin))
}
