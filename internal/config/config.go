package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/san-kum/rhor/internal/analysis"
	"github.com/san-kum/rhor/internal/rhor"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEnergySigma = 0.1 // MeV
	DefaultPreset      = "omega/ch20"
)

// Config is one shot file: the capsule, its parameter uncertainties and an
// optional measured energy.
type Config struct {
	Energy        float64                 `yaml:"energy,omitempty"`
	EnergySigma   float64                 `yaml:"energy_sigma"`
	Shell         rhor.ShellConfiguration `yaml:"shell"`
	Uncertainties map[string]float64      `yaml:"uncertainties,omitempty"`
	Numerics      rhor.Numerics           `yaml:"numerics"`
}

func DefaultConfig() *Config {
	cfg := GetPreset("omega", "ch20")
	cfg.Numerics = rhor.DefaultNumerics()
	return cfg
}

func (c *Config) clone() *Config {
	out := *c
	if c.Uncertainties != nil {
		out.Uncertainties = make(map[string]float64, len(c.Uncertainties))
		for k, v := range c.Uncertainties {
			out.Uncertainties[k] = v
		}
	}
	return &out
}

// Load reads a shot file over the defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a shot file over base, which is left untouched.
// Uncertainties are taken from the file alone, and unknown keys are
// rejected.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.clone()
	cfg.Uncertainties = nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the shell, the numerics and the uncertainty keys.
func (c *Config) Validate() error {
	if err := c.Shell.Validate(); err != nil {
		return err
	}
	if err := c.Numerics.Validate(); err != nil {
		return err
	}
	if math.IsNaN(c.EnergySigma) || c.EnergySigma < 0 {
		return fmt.Errorf("config: energy_sigma must be non-negative, got %g", c.EnergySigma)
	}
	_, err := c.HalfWidths()
	return err
}

// HalfWidths converts the uncertainty block into engine parameters.
func (c *Config) HalfWidths() (map[analysis.Param]float64, error) {
	out := make(map[analysis.Param]float64, len(c.Uncertainties))
	for name, w := range c.Uncertainties {
		p, err := analysis.ParseParam(name)
		if err != nil {
			return nil, fmt.Errorf("config: uncertainties: %w", err)
		}
		out[p] = w
	}
	return out, nil
}
