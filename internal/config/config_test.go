package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/rhor/internal/analysis"
	"github.com/san-kum/rhor/internal/rhor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "CH", cfg.Shell.ShellMaterial)
	assert.Equal(t, rhor.DefaultNumerics(), cfg.Numerics)
	assert.Equal(t, DefaultEnergySigma, cfg.EnergySigma)
	require.NoError(t, cfg.Validate())
}

func TestDefaultConfigIsACopy(t *testing.T) {
	a := DefaultConfig()
	a.Shell.FillPressure = 99
	a.Uncertainties["fill_pressure"] = 42

	b := DefaultConfig()
	assert.NotEqual(t, 99.0, b.Shell.FillPressure)
	assert.NotEqual(t, 42.0, b.Uncertainties["fill_pressure"])
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.yaml")
	cfg := DefaultConfig()
	cfg.Energy = 12.5
	cfg.Shell.MixFraction = 0.25

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.yaml")
	data := []byte(`
energy: 11.2
shell:
  fill_pressure: 12
uncertainties:
  inner_radius: 0.001
numerics:
  ablated_steps: 40
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, 11.2, cfg.Energy)
	assert.Equal(t, 12.0, cfg.Shell.FillPressure)
	assert.Equal(t, def.Shell.InnerRadius, cfg.Shell.InnerRadius)
	assert.Equal(t, 40, cfg.Numerics.AblatedSteps)
	assert.Equal(t, def.Numerics.MaxTableSteps, cfg.Numerics.MaxTableSteps)
	assert.Equal(t, map[string]float64{"inner_radius": 0.001}, cfg.Uncertainties)
}

func TestLoadOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shell:\n  fill_pressure: 7\n"), 0644))

	base := GetPreset("omega", "sio2")
	require.NotNil(t, base)
	cfg, err := LoadOver(path, base)
	require.NoError(t, err)

	assert.Equal(t, "SiO2", cfg.Shell.ShellMaterial)
	assert.Equal(t, 7.0, cfg.Shell.FillPressure)
	assert.NotEqual(t, 7.0, base.Shell.FillPressure)
	assert.Equal(t, base.Shell.InnerRadius, cfg.Shell.InnerRadius)
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Shell, cfg.Shell)
	assert.Empty(t, cfg.Uncertainties)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	typo := filepath.Join(dir, "typo.yaml")
	require.NoError(t, os.WriteFile(typo, []byte("shell:\n  inner_raduis: 0.05\n"), 0644))
	_, err = Load(typo)
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("shell: [1, 2"), 0644))
	_, err = Load(broken)
	assert.Error(t, err)
}

func TestHalfWidths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Uncertainties = map[string]float64{"fill_pressure": 1, "te_gas": 0.5}

	got, err := cfg.HalfWidths()
	require.NoError(t, err)
	assert.Equal(t, map[analysis.Param]float64{analysis.FillPressure: 1, analysis.TeGas: 0.5}, got)

	cfg.Uncertainties["wall_colour"] = 1
	_, err = cfg.HalfWidths()
	assert.ErrorIs(t, err, analysis.ErrUnknownParam)
	assert.ErrorIs(t, cfg.Validate(), analysis.ErrUnknownParam)
}

func TestValidateRejectsBadShell(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shell.OuterRadius = cfg.Shell.InnerRadius / 2
	assert.ErrorIs(t, cfg.Validate(), rhor.ErrInvalidConfiguration)

	cfg = DefaultConfig()
	cfg.EnergySigma = -1
	assert.Error(t, cfg.Validate())
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("omega", "ch24")
	require.NotNil(t, cfg)
	assert.Equal(t, 0.0024, cfg.Shell.ShellThickness)

	assert.Nil(t, GetPreset("omega", "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "ch20"))
}

func TestPresetsValidate(t *testing.T) {
	for _, facility := range ListFacilities() {
		for _, name := range ListPresets(facility) {
			t.Run(facility+"/"+name, func(t *testing.T) {
				assert.NoError(t, GetPreset(facility, name).Validate())
			})
		}
	}
}

func TestParsePreset(t *testing.T) {
	cfg, err := ParsePreset(DefaultPreset)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Shell, cfg.Shell)

	_, err = ParsePreset("omega")
	assert.Error(t, err)
	_, err = ParsePreset("omega/ch99")
	assert.Error(t, err)
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("omega")
	assert.Contains(t, presets, "ch20")
	assert.IsNonDecreasing(t, presets)
	assert.Nil(t, ListPresets("nonexistent"))
}
