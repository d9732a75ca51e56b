package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// {prefix}:scheduler:job:{name} -> JSON JobRun
const jobKeyPrefix = "scheduler:job:"

// KeyPrefixer adds a namespace to Redis keys
type KeyPrefixer interface {
	PrefixKey(key string) string
}

// JobRun records the latest run a scheduled job enqueued
type JobRun struct {
	RunID      string    `json:"run_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// RunTracker remembers the last run enqueued for each job
type RunTracker interface {
	// LastRun returns the latest run of a job; nil if it never ran
	LastRun(ctx context.Context, job string) (*JobRun, error)

	// Record stores run as the latest run of a job
	Record(ctx context.Context, job string, run JobRun) error

	// Jobs returns the names of all tracked jobs
	Jobs(ctx context.Context) ([]string, error)
}

type redisRunTracker struct {
	log   logrus.FieldLogger
	redis *redis.Client
	keys  KeyPrefixer
}

// NewRunTracker creates a Redis-backed run tracker
func NewRunTracker(log logrus.FieldLogger, client *redis.Client, keys KeyPrefixer) RunTracker {
	return &redisRunTracker{
		log:   log.WithField("component", "run_tracker"),
		redis: client,
		keys:  keys,
	}
}

func (r *redisRunTracker) key(job string) string {
	return r.keys.PrefixKey(jobKeyPrefix + job)
}

func (r *redisRunTracker) LastRun(ctx context.Context, job string) (*JobRun, error) {
	val, err := r.redis.Get(ctx, r.key(job)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last run for job %s: %w", job, err)
	}

	var run JobRun
	if err := json.Unmarshal(val, &run); err != nil {
		r.log.WithError(err).WithField("job", job).Error("Failed to decode last run")
		return nil, fmt.Errorf("failed to decode last run for job %s: %w", job, err)
	}

	return &run, nil
}

func (r *redisRunTracker) Record(ctx context.Context, job string, run JobRun) error {
	val, err := json.Marshal(run)
	if err != nil {
		return err
	}

	if err := r.redis.Set(ctx, r.key(job), val, 0).Err(); err != nil {
		return fmt.Errorf("failed to record run for job %s: %w", job, err)
	}

	r.log.WithFields(logrus.Fields{
		"job":    job,
		"run_id": run.RunID,
	}).Debug("Recorded job run")

	return nil
}

func (r *redisRunTracker) Jobs(ctx context.Context) ([]string, error) {
	prefix := r.keys.PrefixKey(jobKeyPrefix)

	// SCAN keeps Redis responsive; 100 is a per-iteration hint
	const scanBatchSize = 100

	var jobs []string

	iter := r.redis.Scan(ctx, 0, prefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		jobs = append(jobs, iter.Val()[len(prefix):])
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan jobs: %w", err)
	}

	return jobs, nil
}

// Verify interface compliance at compile time
var _ RunTracker = (*redisRunTracker)(nil)
