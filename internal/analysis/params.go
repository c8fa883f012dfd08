package analysis

import (
	"fmt"

	"github.com/san-kum/rhor/internal/rhor"
)

// Param names a perturbable ShellConfiguration field by its YAML key.
type Param string

const (
	InnerRadius        Param = "inner_radius"
	OuterRadius        Param = "outer_radius"
	FractionD          Param = "fraction_d"
	Fraction3He        Param = "fraction_3he"
	FillPressure       Param = "fill_pressure"
	TeGas              Param = "te_gas"
	TeShell            Param = "te_shell"
	TeAblated          Param = "te_ablated"
	TeMix              Param = "te_mix"
	AblatedDensityMax  Param = "ablated_density_max"
	AblatedDensityMin  Param = "ablated_density_min"
	AblatedScaleLength Param = "ablated_scale_length"
	MixFraction        Param = "mix_fraction"
	ShellThickness     Param = "shell_thickness"
	MassRemaining      Param = "mass_remaining"

	// Measurement labels the energy-measurement term of a breakdown.
	Measurement Param = "energy"
)

// Params lists the perturbable parameters in breakdown order.
var Params = [...]Param{
	InnerRadius,
	OuterRadius,
	FractionD,
	Fraction3He,
	FillPressure,
	TeGas,
	TeShell,
	TeAblated,
	TeMix,
	AblatedDensityMax,
	AblatedDensityMin,
	AblatedScaleLength,
	MixFraction,
	ShellThickness,
	MassRemaining,
}

// ParseParam resolves a YAML key to its Param.
func ParseParam(s string) (Param, error) {
	for _, p := range Params {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownParam, s)
}

// field returns the configuration field p refers to.
func (p Param) field(c *rhor.ShellConfiguration) *float64 {
	switch p {
	case InnerRadius:
		return &c.InnerRadius
	case OuterRadius:
		return &c.OuterRadius
	case FractionD:
		return &c.FractionD
	case Fraction3He:
		return &c.Fraction3He
	case FillPressure:
		return &c.FillPressure
	case TeGas:
		return &c.TeGas
	case TeShell:
		return &c.TeShell
	case TeAblated:
		return &c.TeAblated
	case TeMix:
		return &c.TeMix
	case AblatedDensityMax:
		return &c.AblatedDensityMax
	case AblatedDensityMin:
		return &c.AblatedDensityMin
	case AblatedScaleLength:
		return &c.AblatedScaleLength
	case MixFraction:
		return &c.MixFraction
	case ShellThickness:
		return &c.ShellThickness
	case MassRemaining:
		return &c.MassRemaining
	}
	return nil
}

// Value reads p from cfg.
func (p Param) Value(cfg rhor.ShellConfiguration) (float64, error) {
	f := p.field(&cfg)
	if f == nil {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParam, p)
	}
	return *f, nil
}

// Perturb returns a copy of cfg with delta added to p.
func (p Param) Perturb(cfg rhor.ShellConfiguration, delta float64) (rhor.ShellConfiguration, error) {
	f := p.field(&cfg)
	if f == nil {
		return cfg, fmt.Errorf("%w: %s", ErrUnknownParam, p)
	}
	*f += delta
	return cfg, nil
}
