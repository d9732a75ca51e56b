package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	//nolint:gosec // only exposed if pprofAddr config is set
	_ "net/http/pprof"

	"github.com/ethpandaops/persona/pkg/api"
	"github.com/ethpandaops/persona/pkg/api/handlers"
	"github.com/ethpandaops/persona/pkg/api/openapi"
	"github.com/ethpandaops/persona/pkg/dataset"
	"github.com/ethpandaops/persona/pkg/observability"
	"github.com/ethpandaops/persona/pkg/redis"
	"github.com/ethpandaops/persona/pkg/scheduler"
	"github.com/ethpandaops/persona/pkg/store"
	"github.com/ethpandaops/persona/pkg/tasks"
	"github.com/ethpandaops/persona/pkg/worker"
	r "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Server represents the main application server
type Server struct {
	log    logrus.FieldLogger
	config *Config

	redis *r.Client
	queue *tasks.QueueManager

	api       api.Service
	worker    worker.Service
	scheduler scheduler.Service

	pprofServer  *http.Server
	healthServer *http.Server
}

// NewServer creates a new server instance
func NewServer(ctx context.Context, log logrus.FieldLogger, config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	redisClient, err := redis.New(&config.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	asynqRedis := redis.NewAsynqRedisOptions(redisClient.Options())
	queueName := config.Redis.PrefixQueue(config.Worker.Queue)
	queue := tasks.NewQueueManager(asynqRedis, queueName)

	personaStore := store.NewRedisStore(log, redisClient, &config.Redis, config.Store.RunTTL)

	s := &Server{
		config: config,
		log:    log,
		redis:  redisClient,
		queue:  queue,
	}

	if config.API.Enabled {
		validator, err := openapi.NewValidator(ctx)
		if err != nil {
			return nil, err
		}

		apiHandlers := handlers.NewServer(personaStore, queue, validator, config.Persona.Concurrency, config.API.DatasetDir, log)
		s.api = api.NewService(&config.API, apiHandlers, log)
	}

	if config.Worker.Enabled {
		workerCfg := config.Worker
		workerCfg.Queue = queueName

		handler := tasks.NewTaskHandler(log, dataset.FileLoader{}, personaStore, config.Persona.Concurrency)

		s.worker, err = worker.NewService(log, &workerCfg, asynqRedis, handler)
		if err != nil {
			return nil, fmt.Errorf("failed to create worker service: %w", err)
		}
	}

	if config.Scheduler.Enabled {
		tracker := scheduler.NewRunTracker(log, redisClient, &config.Redis)
		elector := scheduler.NewLeaderElector(log, redisClient, &config.Redis)

		s.scheduler, err = scheduler.NewService(log, &config.Scheduler, queue, tracker, elector)
		if err != nil {
			return nil, fmt.Errorf("failed to create scheduler service: %w", err)
		}
	}

	return s, nil
}

// Start starts the server and all its components, blocking until a shutdown signal
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Log component states
	s.log.WithFields(logrus.Fields{
		"api":       s.api != nil,
		"worker":    s.worker != nil,
		"scheduler": s.scheduler != nil,
	}).Info("Starting persona server")

	// Start metrics server
	g.Go(func() error {
		defer func() {
			if recovered := recover(); recovered != nil {
				s.log.WithField("panic", recovered).Error("Panic in metrics server goroutine")
			}
		}()
		observability.StartMetricsServer(ctx, s.config.MetricsAddr)
		<-ctx.Done()

		return nil
	})

	// Start pprof server if configured
	if s.config.PProfAddr != "" {
		g.Go(func() error {
			if err := s.startPProf(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			<-ctx.Done()

			return nil
		})
	}

	// Start health check server if configured
	if s.config.HealthCheckAddr != "" {
		g.Go(func() error {
			if err := s.startHealthCheck(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			<-ctx.Done()

			return nil
		})
	}

	if err := s.startServices(ctx); err != nil {
		stop()
		_ = s.stop(context.Background())

		return err
	}

	// Wait for shutdown signal
	g.Go(func() error {
		<-ctx.Done()

		// Use a fresh context for cleanup since the current one is canceled
		return s.stop(context.Background())
	})

	return g.Wait()
}

func (s *Server) startServices(ctx context.Context) error {
	if s.worker != nil {
		if err := s.worker.Start(ctx); err != nil {
			return fmt.Errorf("failed to start worker: %w", err)
		}
	}

	if s.scheduler != nil {
		if err := s.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	if s.api != nil {
		if err := s.api.Start(ctx); err != nil {
			return fmt.Errorf("failed to start api: %w", err)
		}
	}

	return nil
}

func (s *Server) stop(ctx context.Context) error {
	// Create a timeout context for cleanup
	cleanupCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.log.Info("Starting graceful shutdown...")

	stopService := func(name string, stopFunc func() error) {
		if err := stopFunc(); err != nil {
			s.log.WithError(err).Errorf("Failed to stop %s", name)
		}
	}

	// Stop creating runs first, then drain in-flight ones
	if s.scheduler != nil {
		stopService("scheduler service", s.scheduler.Stop)
	}

	if s.api != nil {
		stopService("api service", s.api.Stop)
	}

	if s.worker != nil {
		stopService("worker service", s.worker.Stop)
	}

	stopService("task queue", s.queue.Close)

	// Close Redis connection
	s.log.Info("Closing Redis connection...")
	stopService("redis client", s.redis.Close)

	// Shutdown HTTP servers
	if s.pprofServer != nil {
		if err := s.pprofServer.Shutdown(cleanupCtx); err != nil {
			s.log.WithError(err).Error("failed to shutdown pprof server")
		}
	}

	if s.healthServer != nil {
		if err := s.healthServer.Shutdown(cleanupCtx); err != nil {
			s.log.WithError(err).Error("failed to shutdown health server")
		}
	}

	// Stop metrics server using observability package
	if err := observability.StopMetricsServer(cleanupCtx); err != nil {
		s.log.WithError(err).Error("failed to stop metrics server")
	}

	s.log.Info("Server stopped gracefully")

	return nil
}

func (s *Server) startPProf() error {
	s.log.WithField("addr", s.config.PProfAddr).Info("Starting pprof server")

	s.pprofServer = &http.Server{
		Addr:              s.config.PProfAddr,
		ReadHeaderTimeout: 120 * time.Second,
	}

	return s.pprofServer.ListenAndServe()
}

func (s *Server) startHealthCheck() error {
	s.log.WithField("addr", s.config.HealthCheckAddr).Info("Starting healthcheck server")

	s.healthServer = &http.Server{
		Addr:              s.config.HealthCheckAddr,
		Handler:           s.healthHandler(),
		ReadHeaderTimeout: 120 * time.Second,
	}

	return s.healthServer.ListenAndServe()
}

func (s *Server) healthHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, req *http.Request) {
		if err := s.redis.Ping(req.Context()).Err(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT READY"))
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})

	return mux
}
