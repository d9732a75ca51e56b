package worker

import (
	"errors"
)

var (
	// ErrInvalidConcurrency is returned when concurrency is not positive
	ErrInvalidConcurrency = errors.New("concurrency must be positive")
	// ErrQueueRequired is returned when no queue is configured
	ErrQueueRequired = errors.New("queue is required")
)

// Config contains worker-specific settings
type Config struct {
	Enabled         bool   `yaml:"enabled" default:"true"`
	Concurrency     int    `yaml:"concurrency" default:"4"`
	Queue           string `yaml:"queue" default:"generation"`
	ShutdownTimeout int    `yaml:"shutdownTimeout" default:"30"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.Queue == "" {
		return ErrQueueRequired
	}

	return nil
}
