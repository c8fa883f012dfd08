package stopping

import (
	"fmt"
	"sort"
)

// Particle is the test particle being slowed down.
type Particle struct {
	Name string
	A    float64 // mass in amu
	Z    float64
}

var particles = map[string]Particle{
	"p":   {"p", 1.007276, 1},
	"d":   {"d", 2.013553, 1},
	"t":   {"t", 3.015501, 1},
	"3He": {"3He", 3.014932, 2},
	"a":   {"a", 4.001506, 2},
}

// Proton is the D³He fusion proton, the usual probe.
var Proton = particles["p"]

func LookupParticle(name string) (Particle, error) {
	p, ok := particles[name]
	if !ok {
		return Particle{}, fmt.Errorf("%w: %s", ErrUnknownParticle, name)
	}
	return p, nil
}

func ParticleNames() []string {
	names := make([]string, 0, len(particles))
	for name := range particles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
