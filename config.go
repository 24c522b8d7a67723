package actflow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the engine configuration. It can
// be populated from YAML or JSON. The zero-value is useful - all nested
// fields inherit their package defaults.

type Config struct {
	Executor   ExecutorConfig   `json:"executor" yaml:"executor"`
	Repository RepositoryConfig `json:"repository" yaml:"repository"`
	Tracing    TracingConfig    `json:"tracing" yaml:"tracing"`
}

type ExecutorConfig struct {
	// Scoped makes every action execution run against a fresh handler from
	// its factory; unscoped executions reuse one handler per action name.
	Scoped bool `json:"scoped" yaml:"scoped"`

	// LogElapsed turns on per-execution elapsed time logging.
	LogElapsed bool `json:"logElapsed" yaml:"logElapsed"`
}

type RepositoryConfig struct {
	// Kind selects the position repository: "memory" (default) or "fs".
	Kind string `json:"kind" yaml:"kind"`

	// BaseURL roots the fs repository; any afs scheme is accepted.
	BaseURL string `json:"baseURL" yaml:"baseURL"`
}

type TracingConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// OutputFile receives exported spans; empty means standard output.
	OutputFile string `json:"outputFile" yaml:"outputFile"`
}

// DefaultConfig returns a Config populated with the engine defaults. Callers
// may modify the returned struct before passing it to New.
func DefaultConfig() *Config {
	return &Config{
		Repository: RepositoryConfig{Kind: "memory"},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch c.Repository.Kind {
	case "", "memory":
	case "fs":
		if c.Repository.BaseURL == "" {
			return fmt.Errorf("repository.baseURL is required for kind fs")
		}
	default:
		return fmt.Errorf("unsupported repository.kind %q", c.Repository.Kind)
	}
	return nil
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
