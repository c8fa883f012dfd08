package rhor

import (
	"fmt"
	"math"
	"sync"

	"github.com/san-kum/rhor/internal/integrators"
	"github.com/san-kum/rhor/internal/stopping"
)

// Integrator follows a test particle from the capsule center through the
// fuel, the dense shell and the ablated corona.
type Integrator struct {
	cfg      ShellConfiguration
	num      Numerics
	model    stopping.Model
	particle stopping.Particle
	m        masses
	euler    *integrators.Euler

	mu    sync.Mutex
	cache map[string]stopping.Calculator
}

// NewIntegrator validates cfg and prepares the fixed masses. A nil model
// selects cfg.StoppingModel from the stopping registry.
func NewIntegrator(cfg ShellConfiguration, model stopping.Model, num Numerics) (*Integrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := num.Validate(); err != nil {
		return nil, err
	}
	if model == nil {
		var err error
		model, err = stopping.Lookup(cfg.stoppingModel())
		if err != nil {
			return nil, &FieldError{Field: "stopping_model", Value: cfg.StoppingModel, Reason: "unknown", Err: err}
		}
	}
	particle, err := stopping.LookupParticle(cfg.particle())
	if err != nil {
		return nil, &FieldError{Field: "particle", Value: cfg.Particle, Reason: "unknown", Err: err}
	}
	m, err := newMasses(cfg)
	if err != nil {
		return nil, err
	}

	in := &Integrator{
		cfg:      cfg,
		num:      num.withDefaults(),
		model:    model,
		particle: particle,
		m:        m,
		euler:    integrators.NewEuler(),
		cache:    make(map[string]stopping.Calculator),
	}

	probe, err := in.materialField(cfg.TeShell, m.shell.Density())
	if err != nil {
		return nil, err
	}
	calc, err := in.calculator(probe)
	if err != nil {
		return nil, err
	}
	if cfg.BirthEnergy > calc.MaxEnergy() {
		return nil, &FieldError{
			Field:  "birth_energy",
			Value:  cfg.BirthEnergy,
			Reason: fmt.Sprintf("above the %g MeV validity limit of %s", calc.MaxEnergy(), model.Name()),
		}
	}
	return in, nil
}

func (in *Integrator) Config() ShellConfiguration { return in.cfg }

func (in *Integrator) Numerics() Numerics { return in.num }

func (in *Integrator) StoppingModel() stopping.Model { return in.model }

// Geometry returns the compressed capsule state at rcm.
func (in *Integrator) Geometry(rcm float64) (Geometry, error) {
	return in.geometry(rcm)
}

// CacheSize reports how many distinct calculators have been built.
func (in *Integrator) CacheSize() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.cache)
}

func (in *Integrator) calculator(field stopping.Field) (stopping.Calculator, error) {
	key := field.Key()
	in.mu.Lock()
	defer in.mu.Unlock()
	if c, ok := in.cache[key]; ok {
		return c, nil
	}
	c, err := in.model.New(in.particle, field)
	if err != nil {
		return nil, fmt.Errorf("rhor: %s stopping: %w", in.model.Name(), err)
	}
	in.cache[key] = c
	return c, nil
}

func (in *Integrator) fuelField(g Geometry) (stopping.Field, error) {
	t := in.cfg.TeGas
	species := []stopping.Species{
		{Symbol: deuterium.Symbol, A: deuterium.A, Z: deuterium.Z, T: t, N: g.DeuteronDensity},
		{Symbol: helium3.Symbol, A: helium3.A, Z: helium3.Z, T: t, N: g.Helion3Density},
		stopping.Electron(t, g.DeuteronDensity*deuterium.Z+g.Helion3Density*helium3.Z),
	}
	species = in.appendMaterial(species, in.cfg.TeMix, g.MixDensity)
	return stopping.NewField(species...)
}

func (in *Integrator) materialField(t, rho float64) (stopping.Field, error) {
	return stopping.NewField(in.appendMaterial(nil, t, rho)...)
}

func (in *Integrator) appendMaterial(species []stopping.Species, t, rho float64) []stopping.Species {
	ions, electrons := in.m.shell.NumberDensities(rho)
	for i, e := range in.m.shell.Elements() {
		species = append(species, stopping.Species{Symbol: e.Symbol, A: e.A, Z: e.Z, T: t, N: ions[i]})
	}
	return append(species, stopping.Electron(t, electrons))
}

// traverse slows e across path µm of field. The result is 0 once the
// particle drops below the calculator's validity floor.
func (in *Integrator) traverse(field stopping.Field, e, path float64) (float64, error) {
	if path <= 0 || field.Len() == 0 {
		return e, nil
	}
	calc, err := in.calculator(field)
	if err != nil {
		return 0, err
	}
	out := calc.ExitEnergy(e, path)
	if math.IsNaN(out) {
		return 0, fmt.Errorf("%w: %s stopping gave up after %g µm at %g MeV", ErrNonConvergence, in.model.Name(), path, e)
	}
	if out <= calc.MinEnergy() {
		return 0, nil
	}
	return out, nil
}

// ExitEnergy is the energy in MeV of a particle born at the center with
// the configured birth energy, escaping a shell at rcm. It is 0 when the
// particle ranges out.
func (in *Integrator) ExitEnergy(rcm float64) (float64, error) {
	g, err := in.geometry(rcm)
	if err != nil {
		return 0, err
	}
	cfg := in.cfg
	e := cfg.BirthEnergy

	fuel, err := in.fuelField(g)
	if err != nil {
		return 0, err
	}
	if e, err = in.traverse(fuel, e, g.FuelRadius*umPerCm); err != nil || e == 0 {
		return e, err
	}

	shell, err := in.materialField(cfg.TeShell, g.ShellDensity)
	if err != nil {
		return 0, err
	}
	if e, err = in.traverse(shell, e, cfg.ShellThickness*umPerCm); err != nil || e == 0 {
		return e, err
	}

	if e, err = in.ramp(g, e); err != nil || e == 0 {
		return e, err
	}

	tail, err := in.materialField(cfg.TeAblated, cfg.AblatedDensityMin)
	if err != nil {
		return 0, err
	}
	return in.traverse(tail, e, (g.TailEnd-g.RampEnd)*umPerCm)
}

// ramp crosses the exponential part of the corona in equal first-order
// steps, sampling the density at each step midpoint.
func (in *Integrator) ramp(g Geometry, e float64) (float64, error) {
	n := in.num.AblatedSteps
	if g.RampLength <= 0 || n <= 0 {
		return e, nil
	}
	cfg := in.cfg
	d := g.RampLength / float64(n)
	x := integrators.State{e}
	for k := 0; k < n; k++ {
		rho := cfg.AblatedDensityMax * math.Exp(-(float64(k)+0.5)*d/cfg.AblatedScaleLength)
		field, err := in.materialField(cfg.TeAblated, rho)
		if err != nil {
			return 0, err
		}
		calc, err := in.calculator(field)
		if err != nil {
			return 0, err
		}
		sys := integrators.Func(func(x integrators.State, _ float64) integrators.State {
			return integrators.State{-calc.LossRate(x[0])}
		})
		x = in.euler.Step(sys, x, float64(k)*d*umPerCm, d*umPerCm)
		if !(x[0] > calc.MinEnergy()) {
			return 0, nil
		}
	}
	return x[0], nil
}
