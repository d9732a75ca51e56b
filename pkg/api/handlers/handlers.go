// Package handlers implements the request handlers of the persona API.
package handlers

import (
	"github.com/ethpandaops/persona/pkg/api/openapi"
	"github.com/ethpandaops/persona/pkg/store"
	"github.com/ethpandaops/persona/pkg/tasks"
	"github.com/gofiber/fiber/v3"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// JobQueue enqueues generation runs and reports their state
type JobQueue interface {
	EnqueueGeneration(payload tasks.GeneratePayload, opts ...asynq.Option) (*asynq.TaskInfo, error)
	GetTaskInfo(runID string) (*asynq.TaskInfo, error)
}

// Server holds the dependencies shared by the API handlers
type Server struct {
	store       store.Store
	queue       JobQueue
	validator   *openapi.Validator
	concurrency int
	datasetDir  string
	log         logrus.FieldLogger
}

// NewServer creates a new API server instance. A nil queue disables the job endpoints.
// Job requests may only name dataset files under datasetDir.
func NewServer(personaStore store.Store, queue JobQueue, validator *openapi.Validator, concurrency int, datasetDir string, log logrus.FieldLogger) *Server {
	return &Server{
		store:       personaStore,
		queue:       queue,
		validator:   validator,
		concurrency: concurrency,
		datasetDir:  datasetDir,
		log:         log.WithField("component", "api.handlers"),
	}
}

// Register mounts every handler on router
func (s *Server) Register(router fiber.Router) {
	router.Get("/openapi.yaml", s.GetOpenAPI)

	router.Get("/personas", s.ListPersonas)
	router.Post("/personas", s.GeneratePersonas)
	router.Get("/personas/:userID", s.GetPersona)
	router.Get("/runs/:runID", s.GetRun)

	router.Post("/jobs", s.EnqueueJob)
	router.Get("/jobs/:runID", s.GetJob)
}

// GetOpenAPI handles GET /api/v1/openapi.yaml
func (s *Server) GetOpenAPI(c fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "application/yaml")

	return c.Status(fiber.StatusOK).Send(openapi.Document())
}
