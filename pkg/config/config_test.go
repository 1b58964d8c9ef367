package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-sirs/pkg/logging"
	"github.com/dd0wney/cluso-sirs/pkg/model"
	"github.com/dd0wney/cluso-sirs/pkg/validation"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
simulation:
  contact_probability: 0.4
  infection_probability: 0.25
  population: 30
  iterations: 12
  seed: 99
logging:
  level: debug
tui:
  interval: 250ms
`))
	require.NoError(t, err)

	assert.Equal(t, 0.4, cfg.Simulation.ContactProbability)
	assert.Equal(t, 0.25, cfg.Simulation.InfectionProbability)
	assert.Equal(t, 0.1, cfg.Simulation.RecoveryRate, "unset key keeps default")
	assert.Equal(t, 30, cfg.Simulation.Population)
	assert.Equal(t, 12, cfg.Simulation.Iterations)
	assert.Equal(t, int64(99), cfg.Simulation.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 250*time.Millisecond, cfg.TUI.Interval)
}

func TestParse_ItemizesErrors(t *testing.T) {
	_, err := Parse([]byte(`
simulation:
  move_probability: 1.3
  population: 60
logging:
  level: chatty
tui:
  interval: 1ms
`))
	require.Error(t, err)
	assert.True(t, model.IsInvalidParameter(err))

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))

	var fields []string
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"move_probability", "population", "logging.level", "tui.interval"}, fields)
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("simulation: [unclosed"))
	assert.Error(t, err)
	assert.False(t, model.IsInvalidParameter(err))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	data, err := Default().Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Simulation.Seed = 7
	assert.Len(t, cfg.Options(logging.NewNopLogger()), 2)
	assert.NotNil(t, cfg.Logger())
}
