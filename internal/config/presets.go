package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/rhor/internal/rhor"
)

// omegaShell is a 430 µm, 20 µm CH capsule with 6 atm D₂ and 12 atm ³He,
// compressed to a 20 µm shell near bang time.
func omegaShell() rhor.ShellConfiguration {
	return rhor.ShellConfiguration{
		InnerRadius:        0.0430,
		OuterRadius:        0.0450,
		ShellMaterial:      "CH",
		FillPressure:       18,
		FractionD:          1.0 / 3,
		Fraction3He:        2.0 / 3,
		TeGas:              3,
		TeShell:            0.3,
		TeAblated:          0.3,
		TeMix:              0.3,
		AblatedDensityMax:  1,
		AblatedDensityMin:  0.01,
		AblatedScaleLength: 0.0015,
		ShellThickness:     0.0020,
		MassRemaining:      0.175,
		MixFraction:        0,
		BirthEnergy:        14.7,
		Particle:           "p",
		StoppingModel:      "plasma",
	}
}

func omegaUncertainties() map[string]float64 {
	return map[string]float64{
		"inner_radius":         0.0005,
		"outer_radius":         0.0005,
		"fill_pressure":        1,
		"te_gas":               1,
		"te_shell":             0.1,
		"ablated_scale_length": 0.0005,
		"shell_thickness":      0.0005,
		"mass_remaining":       0.025,
	}
}

func shot(mutate func(*rhor.ShellConfiguration)) *Config {
	s := omegaShell()
	if mutate != nil {
		mutate(&s)
	}
	return &Config{
		EnergySigma:   DefaultEnergySigma,
		Shell:         s,
		Uncertainties: omegaUncertainties(),
	}
}

var Presets = map[string]map[string]*Config{
	"omega": {
		"ch20": shot(nil),
		"ch24": shot(func(s *rhor.ShellConfiguration) {
			s.OuterRadius = 0.0454
			s.ShellThickness = 0.0024
		}),
		"ch20-mix": shot(func(s *rhor.ShellConfiguration) {
			s.MixFraction = 0.5
		}),
		"cd20": shot(func(s *rhor.ShellConfiguration) {
			s.ShellMaterial = "CD"
			s.FractionD = 0
			s.Fraction3He = 1
		}),
		"sio2": shot(func(s *rhor.ShellConfiguration) {
			s.ShellMaterial = "SiO2"
			s.OuterRadius = 0.0433
			s.ShellThickness = 0.0010
			s.MassRemaining = 0.5
		}),
	},
	"nif": {
		"hdc-exploding-pusher": shot(func(s *rhor.ShellConfiguration) {
			s.InnerRadius = 0.0900
			s.OuterRadius = 0.0920
			s.ShellMaterial = "HDC"
			s.FillPressure = 8
			s.ShellThickness = 0.0040
			s.MassRemaining = 0.3
			s.AblatedScaleLength = 0.0030
		}),
	},
	"test": {
		"stub": stubShot(),
	},
}

// stubShot has no corona and loses 0.01 MeV/µm whatever the medium.
func stubShot() *Config {
	cfg := shot(func(s *rhor.ShellConfiguration) {
		s.InnerRadius = 0.0900
		s.OuterRadius = 0.1100
		s.FillPressure = 50
		s.FractionD = 0.3
		s.Fraction3He = 0.7
		s.ShellThickness = 0.0040
		s.MassRemaining = 1
		s.StoppingModel = "constant"
	})
	delete(cfg.Uncertainties, "mass_remaining")
	return cfg
}

func GetPreset(facility, preset string) *Config {
	facilityPresets, ok := Presets[facility]
	if !ok {
		return nil
	}
	cfg, ok := facilityPresets[preset]
	if !ok {
		return nil
	}
	return cfg.clone()
}

// ListFacilities returns the preset groups in sorted order.
func ListFacilities() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListPresets(facility string) []string {
	facilityPresets, ok := Presets[facility]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(facilityPresets))
	for name := range facilityPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParsePreset resolves a "facility/name" reference such as "omega/ch20".
func ParsePreset(ref string) (*Config, error) {
	facility, name, ok := strings.Cut(ref, "/")
	if !ok {
		return nil, fmt.Errorf("config: preset %q is not of the form facility/name", ref)
	}
	cfg := GetPreset(facility, name)
	if cfg == nil {
		return nil, fmt.Errorf("config: unknown preset: %s", ref)
	}
	return cfg, nil
}
