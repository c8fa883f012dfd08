package integrators

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys System, x State, s, ds float64) State {
	dx := sys.Derive(x, s)
	result := make(State, len(x))
	for i := range x {
		result[i] = x[i] + ds*dx[i]
	}
	return result
}
