package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/rhor/internal/analysis"
	"github.com/san-kum/rhor/internal/config"
	"github.com/san-kum/rhor/internal/material"
	"github.com/san-kum/rhor/internal/rhor"
	"github.com/san-kum/rhor/internal/stopping"
	"github.com/san-kum/rhor/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger

	verbose    bool
	configFile string
	preset     string
	model      string

	// shell overrides
	fillPressure  float64
	mixFraction   float64
	massRemaining float64
	birthEnergy   float64

	sigma     float64
	breakdown bool
	plot      bool
	series    string
	width     int
	height    int
	force     bool
)

// main registers the commands and exits with status 1 when one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:   "rhor",
		Short: "areal density from charged-particle exit energies",
		Long: `rhor infers the areal density (ρR) of an imploded capsule from the
measured energy of fusion protons escaping it, and propagates the
uncertainty of every shell parameter into the result.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "shot file path (yaml), read over --preset when both are given")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset shot (facility/name)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "stopping model (see models)")
	rootCmd.PersistentFlags().Float64Var(&fillPressure, "fill-pressure", 0, "fill pressure in atm")
	rootCmd.PersistentFlags().Float64Var(&mixFraction, "mix", 0, "mix mass as a multiple of the fuel mass")
	rootCmd.PersistentFlags().Float64Var(&massRemaining, "mass-remaining", 0, "unablated shell mass fraction")
	rootCmd.PersistentFlags().Float64Var(&birthEnergy, "birth-energy", 0, "birth energy in MeV")

	calcCmd := &cobra.Command{
		Use:   "calc [energies...]",
		Short: "infer ρR and Rcm from measured exit energies (MeV)",
		RunE:  runCalc,
	}
	calcCmd.Flags().Float64Var(&sigma, "sigma", 0, "energy measurement sigma in MeV (default from shot file)")
	calcCmd.Flags().BoolVar(&breakdown, "breakdown", false, "show the uncertainty budget")

	eoutCmd := &cobra.Command{
		Use:   "eout [rcm_um...]",
		Short: "exit energy and ρR at fixed shell radii (µm)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runEout,
	}
	eoutCmd.Flags().BoolVar(&breakdown, "breakdown", false, "show the uncertainty budget")

	tableCmd := &cobra.Command{
		Use:   "table",
		Short: "print the nominal attenuation table",
		Args:  cobra.NoArgs,
		RunE:  runTable,
	}
	tableCmd.Flags().BoolVar(&plot, "plot", false, "plot instead of listing")
	tableCmd.Flags().StringVar(&series, "series", "energy", "plotted column: energy or rhor")
	tableCmd.Flags().IntVar(&width, "width", 80, "plot width")
	tableCmd.Flags().IntVar(&height, "height", 15, "plot height")

	materialCmd := &cobra.Command{
		Use:   "material [spec]",
		Short: "resolve a material specifier, or list compound codes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMaterial,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [facility]",
		Short: "list preset shots",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			facilities := config.ListFacilities()
			if len(args) > 0 {
				facilities = args
			}
			for _, f := range facilities {
				presets := config.ListPresets(f)
				if len(presets) == 0 {
					fmt.Printf("no presets for facility: %s\n", f)
					continue
				}
				fmt.Printf("presets for %s:\n", f)
				for _, p := range presets {
					fmt.Printf("  %s/%s\n", f, p)
				}
			}
			return nil
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list stopping models and test particles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("stopping models:")
			for _, name := range stopping.Names() {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("particles:")
			for _, name := range stopping.ParticleNames() {
				p, _ := stopping.LookupParticle(name)
				fmt.Printf("  %-4s A=%.4f Z=%g\n", name, p.A, p.Z)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a shot file to start from",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInitConfig,
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	rootCmd.AddCommand(calcCmd, eoutCmd, tableCmd, materialCmd, presetsCmd, modelsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadShot resolves defaults, then the preset, then the shot file, then
// any shell flags that were set explicitly.
func loadShot(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := config.ParsePreset(preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}
	if configFile != "" {
		c, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Shell.StoppingModel = model
	}
	if flags.Changed("fill-pressure") {
		cfg.Shell.FillPressure = fillPressure
	}
	if flags.Changed("mix") {
		cfg.Shell.MixFraction = mixFraction
	}
	if flags.Changed("mass-remaining") {
		cfg.Shell.MassRemaining = massRemaining
	}
	if flags.Changed("birth-energy") {
		cfg.Shell.BirthEnergy = birthEnergy
	}
	if flags.Changed("sigma") {
		cfg.EnergySigma = sigma
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("shot loaded",
		zap.String("material", cfg.Shell.ShellMaterial),
		zap.String("stopping_model", cfg.Shell.StoppingModel),
		zap.Int("uncertainties", len(cfg.Uncertainties)))
	return cfg, nil
}

func newEngine(cfg *config.Config) (*analysis.Engine, error) {
	widths, err := cfg.HalfWidths()
	if err != nil {
		return nil, err
	}
	return analysis.New(cfg.Shell, widths,
		analysis.WithLogger(logger),
		analysis.WithNumerics(cfg.Numerics),
	)
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number: %s", a)
		}
		out[i] = v
	}
	return out, nil
}

func runCalc(cmd *cobra.Command, args []string) error {
	cfg, err := loadShot(cmd)
	if err != nil {
		return err
	}
	energies, err := parseFloats(args)
	if err != nil {
		return err
	}
	if len(energies) == 0 {
		if cfg.Energy == 0 {
			return errors.New("no energy given and the shot file has none")
		}
		energies = []float64{cfg.Energy}
	}

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}

	if breakdown {
		for _, e := range energies {
			res, err := eng.CalcRhoR(e, cfg.EnergySigma, true)
			if err != nil && !errors.Is(err, rhor.ErrOutOfRange) {
				return err
			}
			fmt.Println(viz.RenderResult(e, cfg.EnergySigma, res))
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "E (MeV)\tρR (mg/cm²)\tσρR\tRcm (µm)\tσRcm\tSKIPPED")
	for _, e := range energies {
		res, err := eng.CalcRhoR(e, cfg.EnergySigma, false)
		if err != nil && !errors.Is(err, rhor.ErrOutOfRange) {
			return err
		}
		if err != nil {
			logger.Debug("energy outside table", zap.Float64("energy", e), zap.Error(err))
		}
		rho := res.RhoR.Scale(viz.MgPerCm2.Scale)
		rcm := res.Rcm.Scale(viz.Micron.Scale)
		fmt.Fprintf(w, "%.3f\t%.3f\t%.3f\t%.1f\t%.1f\t%s\n",
			e, rho.Value, rho.Upper, rcm.Value, rcm.Upper, skippedList(res))
	}
	return w.Flush()
}

func skippedList(res analysis.Result) string {
	names := make([]string, 0, len(res.Skipped)+1)
	for _, p := range res.Skipped {
		names = append(names, string(p))
	}
	if res.MeasurementSkipped {
		names = append(names, string(analysis.Measurement))
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}

func runEout(cmd *cobra.Command, args []string) error {
	cfg, err := loadShot(cmd)
	if err != nil {
		return err
	}
	radii, err := parseFloats(args)
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if !breakdown {
		fmt.Fprintln(w, "Rcm (µm)\tE (MeV)\tσE\tρR (mg/cm²)\tσρR")
	}
	for _, um := range radii {
		rcm := um / viz.Micron.Scale
		e, err := eng.ExitEnergy(rcm)
		if err != nil {
			return err
		}
		rho, err := eng.ArealDensity(rcm)
		if err != nil {
			return err
		}
		if breakdown {
			fmt.Println(viz.RenderSpread("exit energy", rcm, e, viz.MeV))
			fmt.Println(viz.RenderSpread("areal density", rcm, rho, viz.MgPerCm2))
			continue
		}
		r := rho.Quantity.Scale(viz.MgPerCm2.Scale)
		fmt.Fprintf(w, "%.1f\t%.3f\t%.3f\t%.3f\t%.3f\n",
			um, e.Quantity.Value, e.Quantity.Upper, r.Value, r.Upper)
	}
	return w.Flush()
}

func runTable(cmd *cobra.Command, args []string) error {
	cfg, err := loadShot(cmd)
	if err != nil {
		return err
	}
	m, err := rhor.New(cfg.Shell, rhor.WithNumerics(cfg.Numerics))
	if err != nil {
		return err
	}
	samples := m.Table().Samples()
	logger.Debug("table built",
		zap.Int("samples", len(samples)),
		zap.Int("calculators", m.Integrator().CacheSize()))

	if plot {
		s := viz.SeriesEnergy
		switch series {
		case "energy":
		case "rhor":
			s = viz.SeriesArealDensity
		default:
			return fmt.Errorf("unknown series: %s (energy or rhor)", series)
		}
		fmt.Println(viz.PlotTable(samples, s, width, height))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Rcm (µm)\tE (MeV)\tρR (mg/cm²)")
	for _, s := range samples {
		fmt.Fprintf(w, "%.2f\t%.4f\t%.4f\n", s.Rcm*viz.Micron.Scale, s.Energy, s.RhoR*viz.MgPerCm2.Scale)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	energies := make([]float64, len(samples))
	for i, s := range samples {
		energies[i] = s.Energy
	}
	fmt.Println(viz.Sparkline(energies, min(len(energies), width)))
	return nil
}

func runMaterial(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if len(args) == 0 {
		fmt.Fprintln(w, "CODE\tDENSITY (g/cc)\t<A>\t<Z>")
		for _, code := range material.Codes() {
			c, err := material.Lookup(code)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\n", code, c.Density(), c.MeanA(), c.MeanZ())
		}
		return w.Flush()
	}

	c, err := material.Parse(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s: %.3f g/cc, <A>=%.4f, <Z>=%.4f\n", args[0], c.Density(), c.MeanA(), c.MeanZ())
	fmt.Fprintln(w, "ELEMENT\tA\tZ\tFRACTION")
	for _, e := range c.Elements() {
		fmt.Fprintf(w, "%s\t%.4f\t%g\t%.5f\n", e.Symbol, e.A, e.Z, e.Fraction)
	}
	return w.Flush()
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path := "shot.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s exists (use --force to overwrite)", path)
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := config.ParsePreset(preset)
		if err != nil {
			return err
		}
		p.Numerics = rhor.DefaultNumerics()
		cfg = p
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
