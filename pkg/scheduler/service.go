package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethpandaops/persona/pkg/observability"
	"github.com/ethpandaops/persona/pkg/tasks"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Enqueuer submits generation runs to the task queue
type Enqueuer interface {
	EnqueueGeneration(payload tasks.GeneratePayload, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service defines the public interface for the scheduler
type Service interface {
	// Start registers every job and starts the cron loop
	Start(ctx context.Context) error

	// Stop waits for running jobs and shuts the scheduler down
	Stop() error
}

// service enqueues configured jobs on their schedules while holding leadership
type service struct {
	log logrus.FieldLogger
	cfg *Config

	enqueuer Enqueuer
	tracker  RunTracker
	elector  LeaderElector

	cron    *cron.Cron
	ctx     context.Context //nolint:containedctx // cron callbacks have no context of their own
	started sync.Once
	now     func() time.Time
}

// NewService creates a new scheduler service. A nil elector makes this
// instance always enqueue.
func NewService(log logrus.FieldLogger, cfg *Config, enqueuer Enqueuer, tracker RunTracker, elector LeaderElector) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log = log.WithField("service", "scheduler")

	return &service{
		log:      log,
		cfg:      cfg,
		enqueuer: enqueuer,
		tracker:  tracker,
		elector:  elector,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cron.PrintfLogger(log)),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log))),
		),
		ctx: context.Background(),
		now: time.Now,
	}, nil
}

// Start registers every job and starts the cron loop
func (s *service) Start(ctx context.Context) error {
	s.ctx = ctx

	for i := range s.cfg.Jobs {
		job := s.cfg.Jobs[i]

		if _, err := s.cron.AddFunc(job.Schedule, func() { s.runJob(s.ctx, job) }); err != nil {
			return fmt.Errorf("%w for job %s: %w", ErrInvalidSchedule, job.Name, err)
		}

		s.log.WithFields(logrus.Fields{
			"job":      job.Name,
			"schedule": job.Schedule,
		}).Info("Registered scheduled job")
	}

	if s.elector != nil {
		if err := s.elector.Start(ctx, s.roleChanged); err != nil {
			return fmt.Errorf("failed to start leader election: %w", err)
		}
	}

	s.started.Do(s.cron.Start)

	s.log.WithField("jobs", len(s.cfg.Jobs)).Info("Scheduler service started")

	return nil
}

// Stop waits for running jobs and shuts the scheduler down
func (s *service) Stop() error {
	<-s.cron.Stop().Done()

	if s.elector != nil {
		if err := s.elector.Stop(); err != nil {
			s.log.WithError(err).Warn("Failed to stop leader elector")
		}
	}

	s.log.Info("Scheduler service stopped")

	return nil
}

// roleChanged reports which scheduled jobs this instance now owns
func (s *service) roleChanged(role Role) {
	observability.RecordSchedulerRole(string(role), role == RoleLeader)

	log := s.log.WithField("role", role)

	if role == RoleLeader {
		log.WithField("jobs", s.jobNames()).Info("Acquired scheduler lease, enqueueing scheduled jobs")
		return
	}

	log.Info("Lost scheduler lease, scheduled jobs paused on this instance")
}

func (s *service) jobNames() []string {
	names := make([]string, 0, len(s.cfg.Jobs))
	for i := range s.cfg.Jobs {
		names = append(names, s.cfg.Jobs[i].Name)
	}

	return names
}

// runJob enqueues one generation run for job. Followers skip the tick.
func (s *service) runJob(ctx context.Context, job JobConfig) {
	log := s.log.WithField("job", job.Name)

	if s.elector != nil && !s.elector.IsLeader() {
		log.Debug("Not leader, skipping scheduled job")
		return
	}

	now := s.now().UTC()
	payload := tasks.GeneratePayload{
		RunID:       fmt.Sprintf("%s-%s", job.Name, uuid.NewString()),
		TargetsPath: job.Targets,
		TasksPath:   job.Tasks,
		StartTime:   job.StartTime,
		EndTime:     job.EndTime,
		Trigger:     tasks.TriggerSchedule,
		EnqueuedAt:  now,
	}

	info, err := s.enqueuer.EnqueueGeneration(payload)
	if err != nil {
		observability.RecordError("scheduler", "enqueue_error")
		log.WithError(err).Error("Failed to enqueue scheduled job")
		return
	}

	log.WithFields(logrus.Fields{
		"run_id": payload.RunID,
		"queue":  info.Queue,
	}).Info("Enqueued scheduled job")

	if s.tracker == nil {
		return
	}

	if err := s.tracker.Record(ctx, job.Name, JobRun{RunID: payload.RunID, EnqueuedAt: now}); err != nil {
		log.WithError(err).Warn("Failed to record job run")
	}
}

// Verify interface compliance at compile time
var _ Service = (*service)(nil)
