// Package server wires the persona API, worker and scheduler into one process
package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethpandaops/persona/pkg/api"
	"github.com/ethpandaops/persona/pkg/redis"
	"github.com/ethpandaops/persona/pkg/scheduler"
	"github.com/ethpandaops/persona/pkg/worker"
)

// Define static errors
var (
	ErrInvalidConcurrency = errors.New("persona concurrency must be positive")
	ErrNothingEnabled     = errors.New("at least one of api, worker or scheduler must be enabled")
)

// Config holds server configuration
type Config struct {
	// Logging is the logging level to use.
	Logging string `yaml:"logging" default:"info" validate:"oneof=panic fatal warn info debug trace"`
	// MetricsAddr is the address to listen on for metrics.
	MetricsAddr string `yaml:"metricsAddr" default:":9090"`
	// HealthCheckAddr is the address to listen on for healthcheck.
	HealthCheckAddr string `yaml:"healthCheckAddr"`
	// PProfAddr is the address to listen on for pprof.
	PProfAddr string `yaml:"pprofAddr"`
	// ShutdownTimeout bounds graceful shutdown of the HTTP servers.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"10s"`

	Redis     redis.Config     `yaml:"redis"`
	API       api.Config       `yaml:"api"`
	Worker    worker.Config    `yaml:"worker"`
	Scheduler scheduler.Config `yaml:"scheduler"`
	Persona   PersonaConfig    `yaml:"persona"`
	Store     StoreConfig      `yaml:"store"`
}

// PersonaConfig tunes generation runs
type PersonaConfig struct {
	// Concurrency is the number of user groups evaluated in parallel per run.
	Concurrency int `yaml:"concurrency" default:"4"`
}

// StoreConfig tunes persona persistence
type StoreConfig struct {
	// RunTTL is how long run snapshots are kept; zero keeps them forever.
	RunTTL time.Duration `yaml:"runTTL" default:"168h"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("invalid redis configuration: %w", err)
	}

	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("invalid api configuration: %w", err)
	}

	if c.Worker.Enabled {
		if err := c.Worker.Validate(); err != nil {
			return fmt.Errorf("invalid worker configuration: %w", err)
		}
	}

	if err := c.Scheduler.Validate(); err != nil {
		return fmt.Errorf("invalid scheduler configuration: %w", err)
	}

	if c.Persona.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if !c.API.Enabled && !c.Worker.Enabled && !c.Scheduler.Enabled {
		return ErrNothingEnabled
	}

	return nil
}
