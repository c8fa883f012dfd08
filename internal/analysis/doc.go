// Package analysis propagates shell-parameter uncertainties into inferred
// areal densities.
//
// An [Engine] holds the nominal [rhor.Model] and, for every parameter with
// a nonzero half-width, a model built at the low and high edge of that
// parameter. Each query is evaluated on all of them:
//
//   - [Engine.CalcRhoR]: ρR and Rcm from a measured energy
//   - [Engine.ExitEnergy]: exit energy at a fixed Rcm
//   - [Engine.ArealDensity]: total ρR at a fixed Rcm
//   - [Engine.Probe]: any other scalar derived from a model
//
// # Error Budget
//
// A parameter contributes |f(high) - f(low)|/2 and contributions add in
// quadrature. The measurement term |f(E-σ) - f(E+σ)|/2 is evaluated on
// the nominal model and added the same way:
//
//	eng, err := analysis.New(cfg, map[analysis.Param]float64{
//	    analysis.FillPressure: 1,
//	    analysis.ShellThickness: 5e-4,
//	})
//	res, err := eng.CalcRhoR(12.3, 0.1, true)
//	fmt.Println(res.RhoR) // 0.0712 ± 0.0081
//
// A perturbed model that cannot answer a query contributes nothing; its
// parameter is listed in the result's Skipped set and logged at warn level.
package analysis
