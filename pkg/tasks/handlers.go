package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethpandaops/persona/pkg/observability"
	"github.com/ethpandaops/persona/pkg/persona"
	"github.com/ethpandaops/persona/pkg/records"
	"github.com/ethpandaops/persona/pkg/store"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// DatasetLoader reads the target and task collections a run refers to
type DatasetLoader interface {
	LoadTargets(path string) ([]records.Target, error)
	LoadTasks(path string) ([]records.Task, error)
}

// TaskHandler handles task execution
type TaskHandler struct {
	loader      DatasetLoader
	store       store.Store
	concurrency int
	log         logrus.FieldLogger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(log logrus.FieldLogger, loader DatasetLoader, personaStore store.Store, concurrency int) *TaskHandler {
	return &TaskHandler{
		loader:      loader,
		store:       personaStore,
		concurrency: concurrency,
		log:         log.WithField("component", "task-handler"),
	}
}

// HandleGeneration loads a run's dataset, generates personas and stores them.
// Malformed payloads and empty datasets are not retried.
func (h *TaskHandler) HandleGeneration(ctx context.Context, t *asynq.Task) error {
	var payload GeneratePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		observability.RecordError("task-handler", "unmarshal_error")
		observability.RecordJobProcessed("failed")
		return fmt.Errorf("failed to unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	log := h.log.WithFields(logrus.Fields{
		"run_id":  payload.RunID,
		"trigger": payload.Trigger,
	})

	if err := payload.Validate(); err != nil {
		observability.RecordJobProcessed("failed")
		return fmt.Errorf("invalid payload: %w: %w", err, asynq.SkipRetry)
	}

	startTime := time.Now()
	log.Info("Starting persona generation task")

	targets, err := h.loader.LoadTargets(payload.TargetsPath)
	if err != nil {
		observability.RecordError("task-handler", "load_error")
		observability.RecordJobProcessed("failed")
		return err
	}

	tasks, err := h.loader.LoadTasks(payload.TasksPath)
	if err != nil {
		observability.RecordError("task-handler", "load_error")
		observability.RecordJobProcessed("failed")
		return err
	}

	personas, err := persona.Generate(targets, tasks, persona.Options{
		TimeRange:   payload.TimeRange(),
		Concurrency: h.concurrency,
		Observer: persona.Observers{
			persona.NewLogObserver(log),
			observability.NewMetricsObserver(observability.SourceWorker),
		},
	})
	if err != nil {
		observability.RecordJobProcessed("failed")
		if errors.Is(err, persona.ErrEmptyInput) || errors.Is(err, persona.ErrInvalidTimeBound) {
			return fmt.Errorf("generation failed: %w: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("generation failed: %w", err)
	}

	if err := h.store.Save(ctx, payload.RunID, personas); err != nil {
		observability.RecordJobProcessed("failed")
		return err
	}

	observability.RecordJobProcessed("success")
	log.WithFields(logrus.Fields{
		"personas": len(personas),
		"duration": time.Since(startTime),
	}).Info("Task completed successfully")

	return nil
}

// Routes returns the task handler routes for Asynq
func (h *TaskHandler) Routes() map[string]asynq.HandlerFunc {
	return map[string]asynq.HandlerFunc{
		TypePersonaGeneration: h.HandleGeneration,
	}
}
