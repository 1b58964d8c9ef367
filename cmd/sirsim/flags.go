package main

import (
	"github.com/spf13/pflag"

	"github.com/dd0wney/cluso-sirs/pkg/config"
)

// paramFlags are the flags shared by run and tui. Explicitly set flags
// override the config file, which overrides the defaults.
type paramFlags struct {
	configPath string
	percent    bool
	contact    float64
	infection  float64
	recovery   float64
	move       float64
	population int
	iterations int
	seed       int64
	logLevel   string
	logFormat  string
}

func (pf *paramFlags) register(fs *pflag.FlagSet) {
	d := config.Default()
	fs.StringVarP(&pf.configPath, "config", "c", "", "YAML config file")
	fs.BoolVar(&pf.percent, "percent", true, "read probabilities as percentages (40 means 0.40)")
	fs.Float64Var(&pf.contact, "contact", 0, "probability that two individuals are in contact")
	fs.Float64Var(&pf.infection, "infection", 0, "probability that a contact transmits the infection")
	fs.Float64Var(&pf.recovery, "recovery", 0, "recovery rate, also used as the relapse rate")
	fs.Float64Var(&pf.move, "move", 0, "probability that an individual migrates each timestep")
	fs.IntVarP(&pf.population, "population", "n", d.Simulation.Population, "individuals per community, including the seed")
	fs.IntVarP(&pf.iterations, "iterations", "i", d.Simulation.Iterations, "timesteps to run")
	fs.Int64Var(&pf.seed, "seed", 0, "random seed (0 seeds from the clock)")
	fs.StringVar(&pf.logLevel, "log-level", d.Logging.Level, "log level (debug, info, warn, error)")
	fs.StringVar(&pf.logFormat, "log-format", d.Logging.Format, "log format (json, text)")
}

// load resolves the effective config and validates it.
func (pf *paramFlags) load(fs *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if pf.configPath != "" {
		var err error
		if cfg, err = config.Load(pf.configPath); err != nil {
			return nil, err
		}
	}

	sim := &cfg.Simulation
	probs := []struct {
		name  string
		value float64
		dst   *float64
	}{
		{"contact", pf.contact, &sim.ContactProbability},
		{"infection", pf.infection, &sim.InfectionProbability},
		{"recovery", pf.recovery, &sim.RecoveryRate},
		{"move", pf.move, &sim.MoveProbability},
	}
	for _, p := range probs {
		if !fs.Changed(p.name) {
			continue
		}
		*p.dst = p.value
		if pf.percent {
			*p.dst = p.value / 100
		}
	}

	if fs.Changed("population") {
		sim.Population = pf.population
	}
	if fs.Changed("iterations") {
		sim.Iterations = pf.iterations
	}
	if fs.Changed("seed") {
		sim.Seed = pf.seed
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = pf.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Logging.Format = pf.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
