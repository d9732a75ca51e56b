package handlers

import (
	"errors"

	"github.com/ethpandaops/persona/pkg/persona"
	"github.com/gofiber/fiber/v3"
)

// ErrPersonaNotFound is returned when no persona is stored for a user
var ErrPersonaNotFound = fiber.NewError(fiber.StatusNotFound, "persona not found")

// ErrRunNotFound is returned when a run id is unknown
var ErrRunNotFound = fiber.NewError(fiber.StatusNotFound, "run not found")

// ErrJobsDisabled is returned when no task queue is configured
var ErrJobsDisabled = fiber.NewError(fiber.StatusServiceUnavailable, "job queue is not configured")

// ErrPathOutsideDatasetDir is returned when a job names a file outside the dataset root
var ErrPathOutsideDatasetDir = fiber.NewError(fiber.StatusBadRequest, "dataset path is outside the dataset directory")

func badRequest(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, err.Error())
}

// generationError maps caller mistakes to 400 and leaves the rest to the error handler
func generationError(err error) error {
	if errors.Is(err, persona.ErrEmptyInput) || errors.Is(err, persona.ErrInvalidTimeBound) {
		return badRequest(err)
	}

	return err
}
