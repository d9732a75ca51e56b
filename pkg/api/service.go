package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ethpandaops/persona/pkg/api/handlers"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/sirupsen/logrus"
)

// Service defines the API service interface
type Service interface {
	Start(ctx context.Context) error
	Stop() error
}

type service struct {
	app      *fiber.App
	server   *http.Server
	config   *Config
	handlers *handlers.Server
	log      logrus.FieldLogger
}

// NewService creates a new API service
func NewService(cfg *Config, server *handlers.Server, log logrus.FieldLogger) Service {
	return &service{
		config:   cfg,
		handlers: server,
		log:      log.WithField("service", "api"),
	}
}

// NewApp builds the Fiber app serving every handler under /api/v1
func NewApp(cfg *Config, server *handlers.Server, log logrus.FieldLogger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: newErrorHandler(log),
		AppName:      "Persona API",
		BodyLimit:    cfg.BodyLimit,
	})

	setupMiddleware(app)

	server.Register(app.Group("/api/v1"))

	return app
}

// Start initializes and starts the API server
func (s *service) Start(_ context.Context) error {
	if !s.config.Enabled {
		s.log.Info("API service is disabled")
		return nil
	}

	s.app = NewApp(s.config, s.handlers, s.log)

	// Create HTTP server with the Fiber app
	fiberHandler := adaptor.FiberApp(s.app)
	s.server = &http.Server{
		Addr:              s.config.Addr,
		Handler:           fiberHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		s.log.WithField("addr", s.config.Addr).Info("Starting API server")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("Server failed to start")
		}
	}()

	return nil
}

// Stop gracefully shuts down the API server
func (s *service) Stop() error {
	if s.server == nil {
		return nil
	}

	s.log.Info("Stopping API server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
