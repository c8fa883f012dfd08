package rhor

import (
	"fmt"
	"math"

	"github.com/san-kum/rhor/internal/stopping"
)

// Model bundles a validated configuration with its integrator and table.
type Model struct {
	cfg   ShellConfiguration
	integ *Integrator
	table *Table
}

type options struct {
	model    stopping.Model
	numerics Numerics
}

type Option func(*options)

// WithStoppingModel overrides the registry model named by the configuration.
func WithStoppingModel(m stopping.Model) Option {
	return func(o *options) { o.model = m }
}

func WithNumerics(n Numerics) Option {
	return func(o *options) { o.numerics = n }
}

// New validates cfg and builds the attenuation table.
func New(cfg ShellConfiguration, opts ...Option) (*Model, error) {
	o := options{numerics: DefaultNumerics()}
	for _, opt := range opts {
		opt(&o)
	}
	in, err := NewIntegrator(cfg, o.model, o.numerics)
	if err != nil {
		return nil, err
	}
	table, err := BuildTable(in, in.Numerics())
	if err != nil {
		return nil, err
	}
	return &Model{cfg: cfg, integ: in, table: table}, nil
}

func (m *Model) Config() ShellConfiguration { return m.cfg }
func (m *Model) Integrator() *Integrator    { return m.integ }
func (m *Model) Table() *Table              { return m.table }

// RhoR infers the areal density in g/cm² and the shell radius in cm from
// a measured exit energy.
func (m *Model) RhoR(e float64) (rhoR, rcm float64, err error) {
	if math.IsNaN(e) || e <= 0 {
		return math.NaN(), math.NaN(), fmt.Errorf("%w: energy must be positive, got %g", ErrPrecondition, e)
	}
	rcm, err = m.table.RcmForEnergy(e)
	if err != nil {
		return math.NaN(), math.NaN(), err
	}
	rhoR, err = m.integ.ArealDensity(rcm)
	if err != nil {
		return math.NaN(), math.NaN(), err
	}
	return rhoR, rcm, nil
}

// ExitEnergy interpolates the tabulated exit energy at rcm.
func (m *Model) ExitEnergy(rcm float64) (float64, error) {
	return m.table.ExitEnergy(rcm)
}

// ArealDensity is the closed-form total areal density at rcm, with the
// same domain as the table.
func (m *Model) ArealDensity(rcm float64) (float64, error) {
	lo, hi := m.table.Domain()
	if !(rcm >= lo && rcm <= hi) {
		return math.NaN(), fmt.Errorf("%w: Rcm %g not in [%g, %g]", ErrOutOfRange, rcm, lo, hi)
	}
	return m.integ.ArealDensity(rcm)
}
