// Package config loads run configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-sirs/pkg/logging"
	"github.com/dd0wney/cluso-sirs/pkg/simulation"
	"github.com/dd0wney/cluso-sirs/pkg/validation"
)

// Config is the on-disk run configuration.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	TUI        TUIConfig        `yaml:"tui"`
}

// SimulationConfig holds the model parameters plus the random seed.
type SimulationConfig struct {
	simulation.Params `yaml:",inline"`
	// Seed makes a run reproducible; 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// LoggingConfig selects log verbosity and encoding
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// TUIConfig controls the terminal renderer.
type TUIConfig struct {
	// Interval between automatic steps while playing.
	Interval time.Duration `yaml:"interval"`
}

// MinInterval is the fastest auto-play rate the renderer accepts.
const MinInterval = 20 * time.Millisecond

// Default returns the parameters of a small, visibly spreading outbreak.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Params: simulation.Params{
				ContactProbability:   0.2,
				InfectionProbability: 0.3,
				RecoveryRate:         0.1,
				MoveProbability:      0.05,
				Population:           20,
				Iterations:           50,
			},
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		TUI:     TUIConfig{Interval: 500 * time.Millisecond},
	}
}

// Load reads and validates a YAML file. Keys missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section and reports all failures together.
func (c *Config) Validate() error {
	res := c.Simulation.Params.Validate()

	cv := validation.NewConfigValidator("Config").
		OneOf("logging.level", c.Logging.Level, logging.LevelNames).
		OneOf("logging.format", c.Logging.Format, []string{"json", "text"}).
		MinDuration("tui.interval", c.TUI.Interval, MinInterval)
	res.Merge(cv.Result())

	return res.Err("Config")
}

// Params returns the model parameters of the simulation section.
func (c *Config) Params() simulation.Params {
	return c.Simulation.Params
}

// Marshal renders the config back to YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Logger builds a logger for the configured level and format.
func (c *Config) Logger() logging.Logger {
	return logging.NewLogger(os.Stderr, logging.ParseLevel(c.Logging.Level), logging.ParseFormat(c.Logging.Format))
}

// Options turns the config into engine options logging to logger.
func (c *Config) Options(logger logging.Logger) []simulation.Option {
	return []simulation.Option{
		simulation.WithSeed(c.Simulation.Seed),
		simulation.WithLogger(logger),
	}
}
