package handlers

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethpandaops/persona/pkg/api/openapi"
	"github.com/ethpandaops/persona/pkg/tasks"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// JobRequest is the body of POST /jobs
type JobRequest struct {
	TargetsPath string `json:"targets_path"`
	TasksPath   string `json:"tasks_path"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
}

// JobStatus reports the queue state of a run
type JobStatus struct {
	RunID     string `json:"run_id"`
	Queue     string `json:"queue,omitempty"`
	State     string `json:"state"`
	LastError string `json:"last_error,omitempty"`
}

// EnqueueJob handles POST /api/v1/jobs
func (s *Server) EnqueueJob(c fiber.Ctx) error {
	if s.queue == nil {
		return ErrJobsDisabled
	}

	body := c.Body()
	if err := s.validator.Validate(openapi.SchemaJobRequest, body); err != nil {
		return badRequest(err)
	}

	var req JobRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return badRequest(err)
	}

	targetsPath, err := s.resolveDatasetPath(req.TargetsPath)
	if err != nil {
		return err
	}

	tasksPath, err := s.resolveDatasetPath(req.TasksPath)
	if err != nil {
		return err
	}

	payload := tasks.GeneratePayload{
		RunID:       uuid.NewString(),
		TargetsPath: targetsPath,
		TasksPath:   tasksPath,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Trigger:     tasks.TriggerAPI,
		EnqueuedAt:  time.Now().UTC(),
	}

	if err := payload.Validate(); err != nil {
		return badRequest(err)
	}

	info, err := s.queue.EnqueueGeneration(payload)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(JobStatus{
		RunID: payload.RunID,
		Queue: info.Queue,
		State: info.State.String(),
	})
}

// GetJob handles GET /api/v1/jobs/:runID
func (s *Server) GetJob(c fiber.Ctx) error {
	if s.queue == nil {
		return ErrJobsDisabled
	}

	runID := c.Params("runID")

	info, err := s.queue.GetTaskInfo(runID)
	if err != nil {
		return err
	}

	if info == nil {
		return ErrRunNotFound
	}

	return c.Status(fiber.StatusOK).JSON(JobStatus{
		RunID:     runID,
		Queue:     info.Queue,
		State:     info.State.String(),
		LastError: info.LastErr,
	})
}

// resolveDatasetPath maps a requested dataset file onto the dataset root.
// Relative paths are joined to the root; any path that leaves it is rejected.
// An empty path is left for payload validation.
func (s *Server) resolveDatasetPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	root, err := filepath.Abs(s.datasetDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve dataset directory: %w", err)
	}

	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(root, resolved)
	}

	resolved = filepath.Clean(resolved)

	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		s.log.WithField("path", path).Warn("Rejected dataset path outside dataset directory")
		return "", ErrPathOutsideDatasetDir
	}

	return resolved, nil
}
