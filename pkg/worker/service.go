// Package worker runs the Asynq server that processes persona generation tasks
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// Router supplies the task handlers the worker serves
type Router interface {
	Routes() map[string]asynq.HandlerFunc
}

// Service defines the public interface for the worker service
type Service interface {
	// Start initializes and starts the worker service
	Start(ctx context.Context) error

	// Stop gracefully shuts down the worker service
	Stop() error
}

// service encapsulates the worker application logic
type service struct {
	config   *Config
	log      logrus.FieldLogger
	redisOpt *asynq.RedisClientOpt
	router   Router

	wg     sync.WaitGroup
	server *asynq.Server
}

// NewService creates a new worker service
func NewService(log logrus.FieldLogger, cfg *Config, redisOpt *asynq.RedisClientOpt, router Router) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &service{
		log:      log.WithField("service", "worker"),
		config:   cfg,
		redisOpt: redisOpt,
		router:   router,
	}, nil
}

// NewServeMux registers every route of router on a new Asynq mux
func NewServeMux(router Router) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	for taskType, handlerFunc := range router.Routes() {
		mux.HandleFunc(taskType, handlerFunc)
	}

	return mux
}

// Start initializes and starts the worker service
func (s *service) Start(_ context.Context) error {
	s.log.WithFields(logrus.Fields{
		"queue":       s.config.Queue,
		"concurrency": s.config.Concurrency,
	}).Info("Starting worker service")

	srv := asynq.NewServer(*s.redisOpt, asynq.Config{
		Concurrency:     s.config.Concurrency,
		Queues:          map[string]int{s.config.Queue: 1},
		ShutdownTimeout: time.Duration(s.config.ShutdownTimeout) * time.Second,
		Logger:          s.log.WithField("component", "asynq"),
	})

	mux := NewServeMux(s.router)

	// Start server in background with proper lifecycle management
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if runErr := srv.Run(mux); runErr != nil {
			s.log.WithError(runErr).Error("Worker server stopped with error")
		}
	}()

	s.server = srv

	s.log.Info("Worker service started successfully")

	return nil
}

// Stop gracefully shuts down the worker service
func (s *service) Stop() error {
	if s.server != nil {
		s.server.Shutdown()
	}

	// Wait for all goroutines to complete
	s.wg.Wait()

	s.log.Info("Worker service stopped successfully")

	return nil
}

// Ensure service implements the interface
var _ Service = (*service)(nil)
