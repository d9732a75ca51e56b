package cmd

import (
	"errors"
	"os"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidConcurrency is returned when concurrency is not positive
	ErrInvalidConcurrency = errors.New("concurrency must be positive")
)

// CLIConfig represents minimal configuration for CLI commands
type CLIConfig struct {
	// Logging level
	Logging string `yaml:"logging" default:"warn" validate:"oneof=panic fatal warn info debug trace"`

	// Concurrency is the number of user groups evaluated in parallel
	Concurrency int `yaml:"concurrency" default:"4"`

	// Format is the default output format of generate
	Format string `yaml:"format" default:"json"`
}

// Validate validates the CLI configuration
func (c *CLIConfig) Validate() error {
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	return nil
}

// LoadCLIConfig loads CLI configuration from a YAML file
func LoadCLIConfig(path string) (*CLIConfig, error) {
	if path == "" {
		path = "cli.yaml"
	}

	config := &CLIConfig{}

	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	// Try to read the file, but allow it to not exist
	yamlFile, err := os.ReadFile(path) //nolint:gosec // User-provided config file path
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return nil, err
	}

	return config, config.Validate()
}
