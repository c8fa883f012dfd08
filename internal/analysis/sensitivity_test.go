package analysis_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/rhor/internal/analysis"
	"github.com/san-kum/rhor/internal/rhor"
	"github.com/san-kum/rhor/internal/stopping"
)

func newEngine(widths map[analysis.Param]float64, opts ...analysis.Option) *analysis.Engine {
	GinkgoHelper()
	opts = append([]analysis.Option{analysis.WithStoppingModel(linearStopping)}, opts...)
	eng, err := analysis.New(shot(), widths, opts...)
	Expect(err).NotTo(HaveOccurred())
	return eng
}

func midEnergy(eng *analysis.Engine) float64 {
	lo, hi := eng.Nominal().Table().EnergyDomain()
	return (lo + hi) / 2
}

var _ = Describe("Engine", func() {
	Describe("construction", func() {
		It("rejects unknown parameters", func() {
			_, err := analysis.New(shot(), map[analysis.Param]float64{"wall_colour": 1},
				analysis.WithStoppingModel(linearStopping))
			Expect(err).To(MatchError(analysis.ErrUnknownParam))
		})

		It("rejects negative and NaN half-widths", func() {
			for _, w := range []float64{-1, math.NaN(), math.Inf(1)} {
				_, err := analysis.New(shot(), map[analysis.Param]float64{analysis.TeGas: w},
					analysis.WithStoppingModel(linearStopping))
				Expect(err).To(MatchError(analysis.ErrInvalidHalfWidth))
			}
		})

		DescribeTable("flags half-widths that leave the physical domain",
			func(p analysis.Param, w float64) {
				_, err := analysis.New(shot(), map[analysis.Param]float64{p: w},
					analysis.WithStoppingModel(linearStopping))
				Expect(err).To(MatchError(analysis.ErrOversizedUncertainty))
				Expect(err).To(MatchError(rhor.ErrInvalidConfiguration))
				Expect(err.Error()).To(ContainSubstring(string(p)))
			},
			Entry("inner radius below zero", analysis.InnerRadius, 0.1),
			Entry("inner radius inside the compressed shell", analysis.InnerRadius, 0.0895),
			Entry("shell thicker than the fuel radius", analysis.ShellThickness, 0.18),
			Entry("more than all the mass remaining", analysis.MassRemaining, 0.5),
			Entry("fill fraction above one", analysis.Fraction3He, 0.5),
		)

		It("reports a nominal configuration error as is", func() {
			cfg := shot()
			cfg.ShellMaterial = "60CH-60SiO2"
			_, err := analysis.New(cfg, nil, analysis.WithStoppingModel(linearStopping))
			Expect(err).To(MatchError(rhor.ErrInvalidConfiguration))
			Expect(err).NotTo(MatchError(analysis.ErrOversizedUncertainty))
		})

		It("builds the same engine at any concurrency", func() {
			widths := map[analysis.Param]float64{analysis.FillPressure: 2, analysis.ShellThickness: 5e-4}
			serial := newEngine(widths, analysis.WithConcurrency(1))
			parallel := newEngine(widths, analysis.WithConcurrency(8))

			e := midEnergy(serial)
			a, err := serial.CalcRhoR(e, 0.05, true)
			Expect(err).NotTo(HaveOccurred())
			b, err := parallel.CalcRhoR(e, 0.05, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(Equal(a))
		})
	})

	Describe("CalcRhoR", func() {
		It("has exactly zero uncertainty with zero half-widths", func() {
			widths := make(map[analysis.Param]float64)
			for _, p := range analysis.Params {
				widths[p] = 0
			}
			eng := newEngine(widths)

			res, err := eng.CalcRhoR(midEnergy(eng), 0, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.RhoR.Lower).To(BeZero())
			Expect(res.RhoR.Upper).To(BeZero())
			Expect(res.Rcm.Upper).To(BeZero())
			Expect(res.Skipped).To(BeEmpty())
			for _, c := range res.RhoRBreakdown {
				Expect(c.Sigma).To(BeZero())
			}
		})

		It("recovers the constant-rate shell radius", func() {
			cfg := shot()
			cfg.MassRemaining = 1
			eng, err := analysis.New(cfg, map[analysis.Param]float64{analysis.FillPressure: 5},
				analysis.WithStoppingModel(stopping.Constant{Rate: 0.01}))
			Expect(err).NotTo(HaveOccurred())

			// 0.7 MeV lost at 0.01 MeV/µm over Rcm + T/2.
			res, err := eng.CalcRhoR(14.0, 0, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Rcm.Value).To(BeNumerically("~", 0.005, 1e-9))
			Expect(res.Rcm.Upper).To(BeNumerically("~", 0, 1e-12))
			Expect(res.RhoR.Value).To(BeNumerically(">", 0))
			Expect(res.RhoR.Upper).To(BeNumerically(">", 0))
			Expect(res.Skipped).To(BeEmpty())
		})

		DescribeTable("never shrinks as a half-width grows",
			func(model stopping.Model, pick func(analysis.Result) rhor.Quantity) {
				cfg := shot()
				cfg.MassRemaining = 1
				var energy float64
				prev := -1.0
				for _, w := range []float64{0, 1, 5} {
					eng, err := analysis.New(cfg, map[analysis.Param]float64{analysis.FillPressure: w},
						analysis.WithStoppingModel(model))
					Expect(err).NotTo(HaveOccurred())
					if w == 0 {
						energy = midEnergy(eng)
					}
					res, err := eng.CalcRhoR(energy, 0, false)
					Expect(err).NotTo(HaveOccurred())
					Expect(res.Skipped).To(BeEmpty())
					q := pick(res)
					Expect(q.Upper).To(BeNumerically(">=", prev))
					prev = q.Upper
				}
				Expect(prev).To(BeNumerically(">", 0))
			},
			Entry("areal density", stopping.Constant{Rate: 0.01},
				func(r analysis.Result) rhor.Quantity { return r.RhoR }),
			Entry("shell radius", linearStopping,
				func(r analysis.Result) rhor.Quantity { return r.Rcm }),
		)

		It("matches the nominal model", func() {
			eng := newEngine(map[analysis.Param]float64{analysis.TeShell: 0.1})
			e := midEnergy(eng)

			wantR, wantC, err := eng.Nominal().RhoR(e)
			Expect(err).NotTo(HaveOccurred())
			res, err := eng.CalcRhoR(e, 0, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.RhoR.Value).To(Equal(wantR))
			Expect(res.Rcm.Value).To(Equal(wantC))
			Expect(res.RhoRBreakdown).To(BeNil())
		})

		It("adds the measurement term in quadrature", func() {
			eng := newEngine(nil)
			e := midEnergy(eng)
			sigma := 0.05

			lo, _, err := eng.Nominal().RhoR(e - sigma)
			Expect(err).NotTo(HaveOccurred())
			hi, _, err := eng.Nominal().RhoR(e + sigma)
			Expect(err).NotTo(HaveOccurred())

			res, err := eng.CalcRhoR(e, sigma, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.RhoR.Upper).To(BeNumerically("~", math.Abs(lo-hi)/2, 1e-15))
			Expect(res.MeasurementSkipped).To(BeFalse())

			last := res.RhoRBreakdown[len(res.RhoRBreakdown)-1]
			Expect(last.Param).To(Equal(analysis.Measurement))
			Expect(last.HalfWidth).To(Equal(sigma))
		})

		It("orders the breakdown by parameter and sums it in quadrature", func() {
			eng := newEngine(map[analysis.Param]float64{
				analysis.FillPressure:   2,
				analysis.ShellThickness: 5e-4,
				analysis.MassRemaining:  0.02,
			})
			res, err := eng.CalcRhoR(midEnergy(eng), 0.05, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.RhoRBreakdown).To(HaveLen(len(analysis.Params) + 1))

			sum := 0.0
			for i, c := range res.RhoRBreakdown {
				if i < len(analysis.Params) {
					Expect(c.Param).To(Equal(analysis.Params[i]))
				}
				sum += c.Sigma * c.Sigma
			}
			Expect(res.RhoR.Upper).To(BeNumerically("~", math.Sqrt(sum), 1e-15))
			Expect(res.RhoR.Upper).To(BeNumerically(">", 0))

			Expect(res.RcmBreakdown).To(HaveLen(len(res.RhoRBreakdown)))
			sum = 0
			for i, c := range res.RcmBreakdown {
				Expect(c.Param).To(Equal(res.RhoRBreakdown[i].Param))
				sum += c.Sigma * c.Sigma
			}
			Expect(res.Rcm.Upper).To(BeNumerically("~", math.Sqrt(sum), 1e-15))
		})

		It("returns NaN and ErrOutOfRange when the nominal table cannot answer", func() {
			eng := newEngine(map[analysis.Param]float64{analysis.FillPressure: 1})
			_, hi := eng.Nominal().Table().EnergyDomain()

			res, err := eng.CalcRhoR(hi+0.2, 0.1, true)
			Expect(err).To(MatchError(rhor.ErrOutOfRange))
			Expect(res.RhoR.IsNaN()).To(BeTrue())
			Expect(res.Rcm.IsNaN()).To(BeTrue())
		})

		It("skips and flags perturbed models that cannot answer", func() {
			eng := newEngine(map[analysis.Param]float64{
				analysis.FillPressure: 5,
				analysis.TeGas:        0.5,
			})
			// The nominal table ends exactly here; a denser fill loses
			// more energy and its table ends lower.
			_, hi := eng.Nominal().Table().EnergyDomain()

			res, err := eng.CalcRhoR(hi, 0.1, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.RhoR.IsNaN()).To(BeFalse())
			Expect(res.Skipped).To(ConsistOf(analysis.FillPressure))
			Expect(res.MeasurementSkipped).To(BeTrue())
			for i, c := range res.RhoRBreakdown {
				Expect(math.IsNaN(c.Sigma)).To(BeFalse())
				if c.Param == analysis.FillPressure {
					Expect(c.Sigma).To(BeZero())
					Expect(res.RcmBreakdown[i].Sigma).To(BeZero())
				}
			}
		})
	})

	Describe("probes at fixed Rcm", func() {
		DescribeTable("never shrink as a half-width grows",
			func(probe func(*analysis.Engine) (analysis.Spread, error)) {
				prev := -1.0
				for _, w := range []float64{0, 1, 5} {
					eng := newEngine(map[analysis.Param]float64{analysis.FillPressure: w})
					s, err := probe(eng)
					Expect(err).NotTo(HaveOccurred())
					Expect(s.Quantity.Upper).To(BeNumerically(">=", prev))
					prev = s.Quantity.Upper
				}
				Expect(prev).To(BeNumerically(">", 0))
			},
			Entry("exit energy", func(e *analysis.Engine) (analysis.Spread, error) { return e.ExitEnergy(0.05) }),
			Entry("areal density", func(e *analysis.Engine) (analysis.Spread, error) { return e.ArealDensity(0.05) }),
		)

		It("fails on a radius with no fuel volume", func() {
			eng := newEngine(nil)
			s, err := eng.ExitEnergy(0.001)
			Expect(err).To(MatchError(rhor.ErrPrecondition))
			Expect(s.Quantity.IsNaN()).To(BeTrue())
		})

		It("probes arbitrary quantities", func() {
			eng := newEngine(map[analysis.Param]float64{analysis.ShellThickness: 5e-4})
			s, err := eng.Probe(func(m *rhor.Model) (float64, error) {
				p, err := m.Integrator().ArealDensityParts(0.05)
				return p.Shell, err
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Quantity.Value).To(BeNumerically(">", 0))
			Expect(s.Breakdown).To(HaveLen(len(analysis.Params)))
		})
	})

	It("parses parameter names", func() {
		p, err := analysis.ParseParam("fill_pressure")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(analysis.FillPressure))

		_, err = analysis.ParseParam("pressure")
		Expect(err).To(MatchError(analysis.ErrUnknownParam))
	})
})
