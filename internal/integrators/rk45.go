package integrators

import (
	"errors"
	"math"
)

// ErrStepRejected is returned by StepAdaptive when the local error
// estimate exceeds the tolerance. The returned step size is the one to
// retry with; the returned state is the unchanged input.
var ErrStepRejected = errors.New("integrators: step rejected, retry with smaller step")

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

// Step takes one step of size ds regardless of the error estimate.
func (r *RK45) Step(sys System, x State, s, ds float64) State {
	newX, _, _ := r.step(sys, x, s, ds, 1e-6)
	return newX
}

func (r *RK45) StepAdaptive(sys System, x State, s, ds, tol float64) (State, float64, error) {
	newX, dsNew, errRatio := r.step(sys, x, s, ds, tol)
	if errRatio > 1 || !newX.IsValid() {
		return x, dsNew, ErrStepRejected
	}
	return newX, dsNew, nil
}

func (r *RK45) step(sys System, x State, s, ds, tol float64) (State, float64, float64) {
	n := len(x)

	k1 := sys.Derive(x, s)

	x2 := make(State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + ds*b21*k1[i]
	}
	k2 := sys.Derive(x2, s+a2*ds)

	x3 := make(State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + ds*(b31*k1[i]+b32*k2[i])
	}
	k3 := sys.Derive(x3, s+a3*ds)

	x4 := make(State, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + ds*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := sys.Derive(x4, s+a4*ds)

	x5 := make(State, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + ds*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := sys.Derive(x5, s+a5*ds)

	x6 := make(State, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + ds*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := sys.Derive(x6, s+ds)

	xNew := make(State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + ds*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := sys.Derive(xNew, s+ds)

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := ds * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := math.Abs(x[i]) + math.Abs(ds*k1[i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	errRatio := errMax / tol

	var dsNew float64
	switch {
	case errRatio > 1:
		dsNew = ds * math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
	case errRatio > 0:
		dsNew = ds * math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
	default:
		dsNew = ds * r.maxScale
	}

	return xNew, dsNew, errRatio
}
