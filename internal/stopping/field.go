package stopping

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	AmuGrams        = 1.66053907e-24
	ElectronMassAmu = 5.48579909e-4
)

// Species is one population of field particles.
type Species struct {
	Symbol string
	A      float64 // amu
	Z      float64 // charge state, -1 for electrons
	T      float64 // keV
	N      float64 // cm⁻³
}

// Electron returns the electron species at temperature t and density n.
func Electron(t, n float64) Species {
	return Species{Symbol: "e", A: ElectronMassAmu, Z: -1, T: t, N: n}
}

// Field is an immutable list of species describing one region of plasma.
type Field struct {
	species []Species
}

// NewField copies species into a Field. Species with zero density are
// dropped since they cannot affect the stopping.
func NewField(species ...Species) (Field, error) {
	f := Field{species: make([]Species, 0, len(species))}
	for _, s := range species {
		if math.IsNaN(s.N) || s.N < 0 || !(s.A > 0) {
			return Field{}, fmt.Errorf("%w: %s (A=%g, N=%g)", ErrInvalidField, s.Symbol, s.A, s.N)
		}
		if s.N == 0 {
			continue
		}
		if !(s.T > 0) {
			return Field{}, fmt.Errorf("%w: %s has temperature %g keV", ErrInvalidField, s.Symbol, s.T)
		}
		f.species = append(f.species, s)
	}
	return f, nil
}

func (f Field) Len() int { return len(f.species) }

func (f Field) Species() []Species {
	out := make([]Species, len(f.species))
	copy(out, f.species)
	return out
}

// MassDensity is the total mass density in g/cm³.
func (f Field) MassDensity() float64 {
	rho := 0.0
	for _, s := range f.species {
		rho += s.N * s.A * AmuGrams
	}
	return rho
}

// Key is a canonical string identifying the field contents exactly, for
// use as a cache key.
func (f Field) Key() string {
	var b strings.Builder
	for _, s := range f.species {
		b.WriteString(s.Symbol)
		for _, v := range [...]float64{s.A, s.Z, s.T, s.N} {
			b.WriteByte(':')
			b.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
		}
		b.WriteByte(';')
	}
	return b.String()
}
