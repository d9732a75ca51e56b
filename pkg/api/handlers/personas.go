package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/ethpandaops/persona/pkg/api/openapi"
	"github.com/ethpandaops/persona/pkg/observability"
	"github.com/ethpandaops/persona/pkg/persona"
	"github.com/ethpandaops/persona/pkg/records"
	"github.com/ethpandaops/persona/pkg/store"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GenerateRequest is the body of POST /personas
type GenerateRequest struct {
	Targets   []records.Target `json:"targets"`
	Tasks     []records.Task   `json:"tasks"`
	StartTime string           `json:"start_time,omitempty"`
	EndTime   string           `json:"end_time,omitempty"`
	Algorithm map[string]any   `json:"algorithm,omitempty"`
}

// GenerateResponse carries generated or stored personas
type GenerateResponse struct {
	RunID    string            `json:"run_id,omitempty"`
	Personas []persona.Persona `json:"personas"`
	Total    int               `json:"total"`
}

// UserList is the body of GET /personas
type UserList struct {
	Users []string `json:"users"`
	Total int      `json:"total"`
}

func newGenerateResponse(runID string, personas []persona.Persona) GenerateResponse {
	if personas == nil {
		personas = []persona.Persona{}
	}

	return GenerateResponse{RunID: runID, Personas: personas, Total: len(personas)}
}

// GeneratePersonas handles POST /api/v1/personas
func (s *Server) GeneratePersonas(c fiber.Ctx) error {
	body := c.Body()
	if err := s.validator.Validate(openapi.SchemaGenerateRequest, body); err != nil {
		return badRequest(err)
	}

	var req GenerateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return badRequest(err)
	}

	persist := false
	if raw := c.Query("persist"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(err)
		}
		persist = v
	}

	personas, err := persona.Generate(req.Targets, req.Tasks, persona.Options{
		TimeRange:   persona.TimeRange{Start: req.StartTime, End: req.EndTime},
		Algorithm:   req.Algorithm,
		Concurrency: s.concurrency,
		Observer: persona.Observers{
			persona.NewLogObserver(s.log),
			observability.NewMetricsObserver(observability.SourceAPI),
		},
	})
	if err != nil {
		return generationError(err)
	}

	var runID string
	if persist {
		runID = uuid.NewString()
		if err := s.store.Save(c.Context(), runID, personas); err != nil {
			return err
		}

		s.log.WithFields(logrus.Fields{
			"run_id":   runID,
			"personas": len(personas),
		}).Info("Persisted generated personas")
	}

	return c.Status(fiber.StatusOK).JSON(newGenerateResponse(runID, personas))
}

// ListPersonas handles GET /api/v1/personas
func (s *Server) ListPersonas(c fiber.Ctx) error {
	users, err := s.store.List(c.Context())
	if err != nil {
		return err
	}

	if users == nil {
		users = []string{}
	}

	return c.Status(fiber.StatusOK).JSON(UserList{Users: users, Total: len(users)})
}

// GetPersona handles GET /api/v1/personas/:userID
func (s *Server) GetPersona(c fiber.Ctx) error {
	p, err := s.store.Get(c.Context(), c.Params("userID"))
	if err != nil {
		if errors.Is(err, store.ErrPersonaNotFound) {
			return ErrPersonaNotFound
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(p)
}

// GetRun handles GET /api/v1/runs/:runID
func (s *Server) GetRun(c fiber.Ctx) error {
	runID := c.Params("runID")

	personas, err := s.store.Run(c.Context(), runID)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return ErrRunNotFound
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(newGenerateResponse(runID, personas))
}
