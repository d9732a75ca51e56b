// Package scheduler enqueues persona generation runs on cron schedules
package scheduler

import (
	"errors"
	"fmt"

	"github.com/ethpandaops/persona/pkg/persona"
	"github.com/robfig/cron/v3"
)

var (
	// ErrJobNameRequired is returned when a job has no name
	ErrJobNameRequired = errors.New("job name is required")
	// ErrDuplicateJob is returned when two jobs share a name
	ErrDuplicateJob = errors.New("duplicate job name")
	// ErrJobPathsRequired is returned when a job is missing dataset paths
	ErrJobPathsRequired = errors.New("job targets and tasks paths are required")
	// ErrInvalidSchedule is returned for cron expressions that cannot be parsed
	ErrInvalidSchedule = errors.New("invalid schedule")
)

// Config defines scheduler configuration
type Config struct {
	Enabled bool        `yaml:"enabled" default:"false"`
	Jobs    []JobConfig `yaml:"jobs"`
}

// JobConfig is a generation run repeated on a cron schedule
type JobConfig struct {
	Name      string `yaml:"name"`
	Schedule  string `yaml:"schedule"`
	Targets   string `yaml:"targets"`
	Tasks     string `yaml:"tasks"`
	StartTime string `yaml:"startTime"`
	EndTime   string `yaml:"endTime"`
}

// TimeRange returns the job's time window
func (j *JobConfig) TimeRange() persona.TimeRange {
	return persona.TimeRange{Start: j.StartTime, End: j.EndTime}
}

// Validate checks a single job
func (j *JobConfig) Validate() error {
	if j.Name == "" {
		return ErrJobNameRequired
	}

	if _, err := cron.ParseStandard(j.Schedule); err != nil {
		return fmt.Errorf("%w for job %s: %w", ErrInvalidSchedule, j.Name, err)
	}

	if j.Targets == "" || j.Tasks == "" {
		return fmt.Errorf("%w: %s", ErrJobPathsRequired, j.Name)
	}

	if err := j.TimeRange().Validate(); err != nil {
		return fmt.Errorf("job %s: %w", j.Name, err)
	}

	return nil
}

// Validate checks if the scheduler configuration is valid
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	seen := make(map[string]struct{}, len(c.Jobs))
	for i := range c.Jobs {
		if err := c.Jobs[i].Validate(); err != nil {
			return err
		}

		if _, ok := seen[c.Jobs[i].Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateJob, c.Jobs[i].Name)
		}
		seen[c.Jobs[i].Name] = struct{}{}
	}

	return nil
}
