package rhor

import "math"

// Parts is the areal density of each region in g/cm².
type Parts struct {
	Gas     float64
	Mix     float64
	Shell   float64
	Ablated float64
}

func (p Parts) FuelPlusMix() float64 { return p.Gas + p.Mix }

func (p Parts) Total() float64 { return p.Gas + p.Mix + p.Shell + p.Ablated }

// ArealDensityParts integrates the density along the particle path at rcm.
func (in *Integrator) ArealDensityParts(rcm float64) (Parts, error) {
	g, err := in.geometry(rcm)
	if err != nil {
		return Parts{}, err
	}
	cfg := in.cfg
	L := cfg.AblatedScaleLength
	return Parts{
		Gas:     g.GasDensity * g.FuelRadius,
		Mix:     g.MixDensity * g.FuelRadius,
		Shell:   g.ShellDensity * cfg.ShellThickness,
		Ablated: -cfg.AblatedDensityMax*L*math.Expm1(-g.RampLength/L) + cfg.AblatedDensityMin*(g.TailEnd-g.RampEnd),
	}, nil
}

// ArealDensity is the total areal density at rcm in g/cm².
func (in *Integrator) ArealDensity(rcm float64) (float64, error) {
	p, err := in.ArealDensityParts(rcm)
	if err != nil {
		return 0, err
	}
	return p.Total(), nil
}
