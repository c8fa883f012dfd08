package stopping

// Model builds calculators for a given test particle and field.
type Model interface {
	Name() string
	New(test Particle, field Field) (Calculator, error)
}

// Calculator answers stopping questions for one particle in one field.
type Calculator interface {
	// ExitEnergy is the energy left after path µm starting from e MeV.
	// It returns 0 once the particle drops below MinEnergy and NaN when
	// the path integration gives up before the end of the path.
	ExitEnergy(e, path float64) float64
	// LossRate is -dE/dx in MeV/µm, never negative.
	LossRate(e float64) float64
	MinEnergy() float64
	MaxEnergy() float64
}
