package integrators

type RK4 struct {
	k1, k2, k3, k4 State
	scratch        State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(State, n)
		r.k2 = make(State, n)
		r.k3 = make(State, n)
		r.k4 = make(State, n)
		r.scratch = make(State, n)
	}
}

// Step is not safe for concurrent use; the scratch buffers are reused.
func (r *RK4) Step(sys System, x State, s, ds float64) State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, sys.Derive(x, s))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + ds*0.5*r.k1[i]
	}
	copy(r.k2, sys.Derive(r.scratch, s+ds*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + ds*0.5*r.k2[i]
	}
	copy(r.k3, sys.Derive(r.scratch, s+ds*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + ds*r.k3[i]
	}
	copy(r.k4, sys.Derive(r.scratch, s+ds))

	result := make(State, n)
	ds6 := ds / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + ds6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}
