package rhor

const (
	// DefaultAblatedSteps is the number of equal first-order steps taken
	// across the exponential ablated-mass ramp.
	DefaultAblatedSteps = 100

	// DefaultRadiusStepDivisor sets the table march step, dr = Rcm/50.
	DefaultRadiusStepDivisor = 50

	// DefaultMaxTableSteps caps the table march.
	DefaultMaxTableSteps = 5000
)

// Numerics are the discretization knobs of the model.
type Numerics struct {
	AblatedSteps      int     `yaml:"ablated_steps" validate:"gte=0"`
	RadiusStepDivisor float64 `yaml:"radius_step_divisor" validate:"finite,gte=0"`
	MaxTableSteps     int     `yaml:"max_table_steps" validate:"gte=0"`
}

func DefaultNumerics() Numerics {
	return Numerics{
		AblatedSteps:      DefaultAblatedSteps,
		RadiusStepDivisor: DefaultRadiusStepDivisor,
		MaxTableSteps:     DefaultMaxTableSteps,
	}
}

// withDefaults fills zero fields, so a partially written YAML block works.
func (n Numerics) withDefaults() Numerics {
	d := DefaultNumerics()
	if n.AblatedSteps == 0 {
		n.AblatedSteps = d.AblatedSteps
	}
	if n.RadiusStepDivisor == 0 {
		n.RadiusStepDivisor = d.RadiusStepDivisor
	}
	if n.MaxTableSteps == 0 {
		n.MaxTableSteps = d.MaxTableSteps
	}
	return n
}

// Validate checks n after zero fields are replaced by defaults.
func (n Numerics) Validate() error {
	if err := validate.Struct(n); err != nil {
		return structError(err)
	}
	n = n.withDefaults()
	if n.RadiusStepDivisor <= 1 {
		return &FieldError{Field: "radius_step_divisor", Value: n.RadiusStepDivisor, Reason: "must exceed 1"}
	}
	if n.MaxTableSteps < 3 {
		return &FieldError{Field: "max_table_steps", Value: n.MaxTableSteps, Reason: "must be at least 3"}
	}
	return nil
}
