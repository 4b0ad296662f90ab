package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tomas-hradek/ecolab/internal/solver"
)

const (
	DefaultDataDir  = ".ecolab"
	DefaultTol      = solver.DefaultTol
	DefaultMaxNodes = solver.DefaultMaxNodes
)

type Config struct {
	Definition string  `yaml:"definition"`
	Preset     string  `yaml:"preset"`
	Relax      bool    `yaml:"relax"`
	Tol        float64 `yaml:"tol"`
	MaxNodes   int     `yaml:"max_nodes"`
	Save       bool    `yaml:"save"`
	DataDir    string  `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Tol:      DefaultTol,
		MaxNodes: DefaultMaxNodes,
		DataDir:  DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// SolverOptions maps the config onto solve options; relax selects the
// continuous relaxation over integral captures.
func (c *Config) SolverOptions() solver.Options {
	opts := solver.DefaultOptions()
	opts.Integer = !c.Relax
	if c.Tol > 0 {
		opts.Tol = c.Tol
	}
	if c.MaxNodes > 0 {
		opts.MaxNodes = c.MaxNodes
	}
	return opts
}
