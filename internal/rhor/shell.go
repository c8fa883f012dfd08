package rhor

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/san-kum/rhor/internal/material"
	"github.com/san-kum/rhor/internal/stopping"
)

const (
	DefaultParticle      = "p"
	DefaultStoppingModel = "plasma"
)

// ShellConfiguration holds the physical inputs of one shot.
type ShellConfiguration struct {
	InnerRadius   float64 `yaml:"inner_radius" validate:"finite,gt=0"`                // cm
	OuterRadius   float64 `yaml:"outer_radius" validate:"finite,gtfield=InnerRadius"` // cm
	ShellMaterial string  `yaml:"shell_material" validate:"required"`

	FillPressure float64 `yaml:"fill_pressure" validate:"finite,gt=0"` // atm
	FractionD    float64 `yaml:"fraction_d" validate:"finite,gte=0,lte=1"`
	Fraction3He  float64 `yaml:"fraction_3he" validate:"finite,gte=0,lte=1"`

	TeGas     float64 `yaml:"te_gas" validate:"finite,gt=0"` // keV
	TeShell   float64 `yaml:"te_shell" validate:"finite,gt=0"`
	TeAblated float64 `yaml:"te_ablated" validate:"finite,gt=0"`
	TeMix     float64 `yaml:"te_mix" validate:"finite,gt=0"`

	AblatedDensityMax  float64 `yaml:"ablated_density_max" validate:"finite,gtefield=AblatedDensityMin"` // g/cm³
	AblatedDensityMin  float64 `yaml:"ablated_density_min" validate:"finite,gt=0"`
	AblatedScaleLength float64 `yaml:"ablated_scale_length" validate:"finite,gt=0"` // cm

	ShellThickness float64 `yaml:"shell_thickness" validate:"finite,gt=0"` // cm, in flight
	MassRemaining  float64 `yaml:"mass_remaining" validate:"finite,gte=0,lte=1"`
	MixFraction    float64 `yaml:"mix_fraction" validate:"finite,gte=0"` // mix mass / fuel mass

	BirthEnergy   float64 `yaml:"birth_energy" validate:"finite,gt=0"` // MeV
	Particle      string  `yaml:"particle,omitempty"`
	StoppingModel string  `yaml:"stopping_model,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

func structError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		reason := fe.Tag()
		if fe.Param() != "" {
			reason += " " + fe.Param()
		}
		return &FieldError{Field: fe.Field(), Value: fe.Value(), Reason: "must satisfy " + reason}
	}
	return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
}

// Validate checks every field against its physical domain. Checks that
// depend on derived masses (mix against remaining shell mass) happen when
// an Integrator is built.
func (c ShellConfiguration) Validate() error {
	if err := validate.Struct(c); err != nil {
		return structError(err)
	}
	if !(c.InnerRadius > c.ShellThickness/2) {
		return &FieldError{Field: "inner_radius", Value: c.InnerRadius, Reason: "leaves no fuel inside half the shell thickness"}
	}
	if !(c.FractionD+c.Fraction3He > 0) {
		return &FieldError{Field: "fraction_d", Value: c.FractionD, Reason: "fill needs some D or 3He"}
	}
	if _, err := material.Parse(c.ShellMaterial); err != nil {
		return &FieldError{Field: "shell_material", Value: c.ShellMaterial, Reason: "unparsable", Err: err}
	}
	if _, err := stopping.LookupParticle(c.particle()); err != nil {
		return &FieldError{Field: "particle", Value: c.Particle, Reason: "unknown", Err: err}
	}
	return nil
}

func (c ShellConfiguration) particle() string {
	if c.Particle == "" {
		return DefaultParticle
	}
	return c.Particle
}

func (c ShellConfiguration) stoppingModel() string {
	if c.StoppingModel == "" {
		return DefaultStoppingModel
	}
	return c.StoppingModel
}
