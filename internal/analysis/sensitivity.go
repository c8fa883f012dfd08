package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/san-kum/rhor/internal/rhor"
	"github.com/san-kum/rhor/internal/stopping"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// perturbation is one parameter with its edge models. Zero half-widths
// share the nominal model on both sides.
type perturbation struct {
	param     Param
	halfWidth float64
	low       *rhor.Model
	high      *rhor.Model
}

// Engine is read-only after New and safe for concurrent queries.
type Engine struct {
	nominal       *rhor.Model
	perturbations []perturbation
	logger        *zap.Logger
}

// Contribution is the one-sigma spread caused by one parameter.
type Contribution struct {
	Param     Param
	HalfWidth float64
	Sigma     float64
}

// Result is an inferred areal density (g/cm²) and shell radius (cm).
type Result struct {
	RhoR rhor.Quantity
	Rcm  rhor.Quantity

	// Breakdowns are in Params order with the measurement term last.
	RhoRBreakdown []Contribution
	RcmBreakdown  []Contribution

	Skipped            []Param
	MeasurementSkipped bool
}

// Spread is a probed quantity with its error budget.
type Spread struct {
	Quantity  rhor.Quantity
	Breakdown []Contribution
	Skipped   []Param
}

// Query derives one scalar from a model.
type Query func(m *rhor.Model) (float64, error)

type options struct {
	logger      *zap.Logger
	model       stopping.Model
	numerics    rhor.Numerics
	concurrency int
}

type Option func(*options)

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithStoppingModel(m stopping.Model) Option {
	return func(o *options) { o.model = m }
}

func WithNumerics(n rhor.Numerics) Option {
	return func(o *options) { o.numerics = n }
}

// WithConcurrency bounds the number of models built at once. The default
// is GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

// New builds the nominal model and the edge models of every parameter with
// a nonzero half-width. Parameters missing from halfWidths are exact.
func New(cfg rhor.ShellConfiguration, halfWidths map[Param]float64, opts ...Option) (*Engine, error) {
	o := options{
		logger:      zap.NewNop(),
		numerics:    rhor.DefaultNumerics(),
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}

	for p, w := range halfWidths {
		if p.field(&cfg) == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParam, p)
		}
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, fmt.Errorf("%w: %s=%g", ErrInvalidHalfWidth, p, w)
		}
	}

	build := func(c rhor.ShellConfiguration) (*rhor.Model, error) {
		return rhor.New(c, rhor.WithStoppingModel(o.model), rhor.WithNumerics(o.numerics))
	}

	e := &Engine{logger: o.logger, perturbations: make([]perturbation, len(Params))}
	for i, p := range Params {
		e.perturbations[i] = perturbation{param: p, halfWidth: halfWidths[p]}
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(o.concurrency)

	g.Go(func() error {
		m, err := build(cfg)
		if err != nil {
			return fmt.Errorf("analysis: nominal model: %w", err)
		}
		e.nominal = m
		o.logger.Debug("nominal model built", zap.Int("samples", m.Table().Len()))
		return nil
	})

	for i := range e.perturbations {
		pt := &e.perturbations[i]
		if pt.halfWidth == 0 {
			continue
		}
		for _, side := range [...]float64{-1, 1} {
			side := side
			g.Go(func() error {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c, err := pt.param.Perturb(cfg, side*pt.halfWidth)
				if err != nil {
					return err
				}
				m, err := build(c)
				if err != nil {
					if errors.Is(err, rhor.ErrInvalidConfiguration) {
						return fmt.Errorf("%w: %s ± %g: %w", ErrOversizedUncertainty, pt.param, pt.halfWidth, err)
					}
					return fmt.Errorf("analysis: %s %+g: %w", pt.param, side*pt.halfWidth, err)
				}
				if side < 0 {
					pt.low = m
				} else {
					pt.high = m
				}
				o.logger.Debug("edge model built",
					zap.String("param", string(pt.param)),
					zap.Float64("delta", side*pt.halfWidth),
					zap.Int("samples", m.Table().Len()))
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range e.perturbations {
		if e.perturbations[i].halfWidth == 0 {
			e.perturbations[i].low = e.nominal
			e.perturbations[i].high = e.nominal
		}
	}
	return e, nil
}

func (e *Engine) Nominal() *rhor.Model { return e.nominal }

// Probe evaluates q on every model. A nominal failure is returned with a
// NaN quantity.
func (e *Engine) Probe(q Query) (Spread, error) {
	spreads, err := e.probe(1, func(m *rhor.Model) ([]float64, error) {
		v, err := q(m)
		return []float64{v}, err
	})
	if err != nil {
		return Spread{Quantity: rhor.NaN()}, err
	}
	return spreads[0], nil
}

// probe is Probe for queries yielding n values from one evaluation. A
// failure at either edge of a parameter skips it for every value.
func (e *Engine) probe(n int, q func(m *rhor.Model) ([]float64, error)) ([]Spread, error) {
	values, err := eval(q, e.nominal, n)
	if err != nil {
		return nil, fmt.Errorf("analysis: nominal: %w", err)
	}

	spreads := make([]Spread, n)
	sums := make([]float64, n)
	for i := range spreads {
		spreads[i].Breakdown = make([]Contribution, 0, len(e.perturbations))
	}
	var skipped []Param
	for _, pt := range e.perturbations {
		var sigmas []float64
		if pt.halfWidth > 0 {
			sigmas, err = edgeSpread(q, n, pt.low, pt.high)
			if err != nil {
				e.logger.Warn("perturbed query failed, contribution skipped",
					zap.String("param", string(pt.param)),
					zap.Float64("half_width", pt.halfWidth),
					zap.Error(err))
				skipped = append(skipped, pt.param)
				sigmas = nil
			}
		}
		for i := range spreads {
			c := Contribution{Param: pt.param, HalfWidth: pt.halfWidth}
			if sigmas != nil {
				c.Sigma = sigmas[i]
			}
			sums[i] += c.Sigma * c.Sigma
			spreads[i].Breakdown = append(spreads[i].Breakdown, c)
		}
	}
	for i := range spreads {
		spreads[i].Quantity = rhor.Symmetric(values[i], math.Sqrt(sums[i]))
		if skipped != nil {
			spreads[i].Skipped = append([]Param(nil), skipped...)
		}
	}
	return spreads, nil
}

func eval(q func(m *rhor.Model) ([]float64, error), m *rhor.Model, n int) ([]float64, error) {
	v, err := q(m)
	if err != nil {
		return nil, err
	}
	if len(v) != n {
		return nil, fmt.Errorf("analysis: query returned %d values, want %d", len(v), n)
	}
	for _, x := range v {
		if math.IsNaN(x) {
			return nil, fmt.Errorf("%w: value is NaN", rhor.ErrOutOfRange)
		}
	}
	return v, nil
}

func edgeSpread(q func(m *rhor.Model) ([]float64, error), n int, low, high *rhor.Model) ([]float64, error) {
	lo, err := eval(q, low, n)
	if err != nil {
		return nil, err
	}
	hi, err := eval(q, high, n)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Abs(hi[i]-lo[i]) / 2
	}
	return out, nil
}

// CalcRhoR infers ρR and Rcm from a measured exit energy e with one-sigma
// measurement error sigma, both in MeV. Each model answers once for both.
func (e *Engine) CalcRhoR(energy, sigma float64, wantBreakdown bool) (Result, error) {
	if math.IsNaN(sigma) || sigma < 0 {
		return Result{RhoR: rhor.NaN(), Rcm: rhor.NaN()},
			fmt.Errorf("%w: energy sigma must be non-negative, got %g", rhor.ErrPrecondition, sigma)
	}

	spreads, err := e.probe(2, func(m *rhor.Model) ([]float64, error) {
		r, c, err := m.RhoR(energy)
		return []float64{r, c}, err
	})
	if err != nil {
		return Result{RhoR: rhor.NaN(), Rcm: rhor.NaN()}, fmt.Errorf("analysis: E=%g MeV: %w", energy, err)
	}
	rhoR, rcm := spreads[0], spreads[1]

	res := Result{Skipped: rhoR.Skipped}
	mR, mC := 0.0, 0.0
	if sigma > 0 {
		loR, loC, errLo := e.nominal.RhoR(energy - sigma)
		hiR, hiC, errHi := e.nominal.RhoR(energy + sigma)
		if err := errors.Join(errLo, errHi); err != nil {
			e.logger.Warn("measurement term skipped",
				zap.Float64("energy", energy),
				zap.Float64("sigma", sigma),
				zap.Error(err))
			res.MeasurementSkipped = true
		} else {
			mR = math.Abs(loR-hiR) / 2
			mC = math.Abs(loC-hiC) / 2
		}
	}

	res.RhoR = rhor.Symmetric(rhoR.Quantity.Value, math.Hypot(rhoR.Quantity.Upper, mR))
	res.Rcm = rhor.Symmetric(rcm.Quantity.Value, math.Hypot(rcm.Quantity.Upper, mC))
	if wantBreakdown {
		res.RhoRBreakdown = append(rhoR.Breakdown, Contribution{Param: Measurement, HalfWidth: sigma, Sigma: mR})
		res.RcmBreakdown = append(rcm.Breakdown, Contribution{Param: Measurement, HalfWidth: sigma, Sigma: mC})
	}
	return res, nil
}

// ExitEnergy is the exit energy in MeV at a fixed shell radius.
func (e *Engine) ExitEnergy(rcm float64) (Spread, error) {
	return e.Probe(func(m *rhor.Model) (float64, error) {
		return m.Integrator().ExitEnergy(rcm)
	})
}

// ArealDensity is the total ρR in g/cm² at a fixed shell radius.
func (e *Engine) ArealDensity(rcm float64) (Spread, error) {
	return e.Probe(func(m *rhor.Model) (float64, error) {
		return m.Integrator().ArealDensity(rcm)
	})
}
