// Package api exposes persona generation and stored personas over HTTP.
package api

import "errors"

var (
	// ErrAPIAddrRequired is returned when API is enabled but no address is configured
	ErrAPIAddrRequired = errors.New("api address is required when API is enabled")
	// ErrDatasetDirRequired is returned when API is enabled but no dataset root is configured
	ErrDatasetDirRequired = errors.New("api dataset directory is required when API is enabled")
)

// Config represents API service configuration
type Config struct {
	Enabled   bool   `yaml:"enabled" default:"true"`
	Addr      string `yaml:"addr" default:":8080" validate:"hostname_port"`
	BodyLimit int    `yaml:"bodyLimit" default:"33554432"`
	// DatasetDir is the only directory job requests may read datasets from
	DatasetDir string `yaml:"datasetDir" default:"data"`
}

// Validate validates the API configuration
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Addr == "" {
		return ErrAPIAddrRequired
	}

	if c.DatasetDir == "" {
		return ErrDatasetDirRequired
	}

	return nil
}
