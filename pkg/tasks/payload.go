// Package tasks provides task queue management using Asynq
package tasks

import (
	"errors"
	"time"

	"github.com/ethpandaops/persona/pkg/persona"
)

const (
	// TypePersonaGeneration is the task type for persona generation runs
	TypePersonaGeneration = "persona:generate"
	// DefaultQueue is the queue generation tasks are enqueued on
	DefaultQueue = "generation"

	// TriggerAPI marks runs requested through the API
	TriggerAPI = "api"
	// TriggerSchedule marks runs enqueued by the scheduler
	TriggerSchedule = "schedule"
)

var (
	// ErrRunIDRequired is returned when a payload has no run id
	ErrRunIDRequired = errors.New("run id is required")
	// ErrDatasetPathsRequired is returned when a payload is missing dataset paths
	ErrDatasetPathsRequired = errors.New("targets and tasks paths are required")
)

// GeneratePayload describes one persona generation run over dataset files.
type GeneratePayload struct {
	RunID       string    `json:"run_id"`
	TargetsPath string    `json:"targets_path"`
	TasksPath   string    `json:"tasks_path"`
	StartTime   string    `json:"start_time,omitempty"`
	EndTime     string    `json:"end_time,omitempty"`
	Trigger     string    `json:"trigger"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

// UniqueID returns a unique identifier for this task
func (p GeneratePayload) UniqueID() string {
	return p.RunID
}

// TimeRange returns the payload's time window.
func (p GeneratePayload) TimeRange() persona.TimeRange {
	return persona.TimeRange{Start: p.StartTime, End: p.EndTime}
}

// Validate checks the payload is complete and its window well formed.
func (p GeneratePayload) Validate() error {
	if p.RunID == "" {
		return ErrRunIDRequired
	}

	if p.TargetsPath == "" || p.TasksPath == "" {
		return ErrDatasetPathsRequired
	}

	return p.TimeRange().Validate()
}
