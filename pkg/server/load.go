package server

import (
	"os"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML config file over the defaults
func LoadConfig(file string) (*Config, error) {
	if file == "" {
		file = "server.yaml"
	}

	config := &Config{}

	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	yamlFile, err := os.ReadFile(file) //nolint:gosec // User-provided config file path
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return nil, err
	}

	return config, nil
}
