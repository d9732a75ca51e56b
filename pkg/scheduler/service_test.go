package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ethpandaops/persona/internal/testutil"
	"github.com/ethpandaops/persona/pkg/observability"
	"github.com/ethpandaops/persona/pkg/redis"
	"github.com/ethpandaops/persona/pkg/tasks"
	"github.com/hibiken/asynq"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errQueueDown = errors.New("queue down")

type fakeEnqueuer struct {
	mu       sync.Mutex
	payloads []tasks.GeneratePayload
	err      error
}

func (f *fakeEnqueuer) EnqueueGeneration(payload tasks.GeneratePayload, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	f.payloads = append(f.payloads, payload)

	return &asynq.TaskInfo{ID: payload.RunID, Queue: tasks.DefaultQueue}, nil
}

func (f *fakeEnqueuer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.payloads)
}

type fakeElector struct {
	leader   bool
	onChange RoleChangeFunc
}

func (f *fakeElector) Start(_ context.Context, onChange RoleChangeFunc) error {
	f.onChange = onChange
	return nil
}
func (f *fakeElector) Stop() error    { return nil }
func (f *fakeElector) IsLeader() bool { return f.leader }

func newTracker(t *testing.T) RunTracker {
	t.Helper()

	_, client := testutil.NewMiniredisClient(t)

	return NewRunTracker(logrus.New(), client, &redis.Config{Prefix: "test"})
}

func newTestService(t *testing.T, enqueuer Enqueuer, tracker RunTracker, elector LeaderElector, jobs ...JobConfig) *service {
	t.Helper()

	svc, err := NewService(logrus.New(), &Config{Enabled: true, Jobs: jobs}, enqueuer, tracker, elector)
	require.NoError(t, err)

	s, ok := svc.(*service)
	require.True(t, ok)
	s.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	return s
}

func TestNewServiceRejectsInvalidConfig(t *testing.T) {
	job := validJob("daily")
	job.Schedule = "not a schedule"

	_, err := NewService(logrus.New(), &Config{Enabled: true, Jobs: []JobConfig{job}}, &fakeEnqueuer{}, nil, nil)
	require.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestRunJobEnqueuesAndRecords(t *testing.T) {
	ctx := context.Background()
	enqueuer := &fakeEnqueuer{}
	tracker := newTracker(t)

	job := validJob("daily")
	job.StartTime = "2024-01-01"
	s := newTestService(t, enqueuer, tracker, nil, job)

	s.runJob(ctx, job)

	require.Equal(t, 1, enqueuer.count())
	payload := enqueuer.payloads[0]
	assert.Contains(t, payload.RunID, "daily-")
	assert.Equal(t, "targets.json", payload.TargetsPath)
	assert.Equal(t, "tasks.json", payload.TasksPath)
	assert.Equal(t, "2024-01-01", payload.StartTime)
	assert.Equal(t, tasks.TriggerSchedule, payload.Trigger)

	run, err := tracker.LastRun(ctx, "daily")
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, payload.RunID, run.RunID)
	assert.True(t, run.EnqueuedAt.Equal(s.now()))

	jobs, err := tracker.Jobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"daily"}, jobs)
}

func TestRunJobSkipsFollowers(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	job := validJob("daily")
	s := newTestService(t, enqueuer, nil, &fakeElector{leader: false}, job)

	s.runJob(context.Background(), job)
	assert.Equal(t, 0, enqueuer.count())

	s.elector = &fakeElector{leader: true}
	s.runJob(context.Background(), job)
	assert.Equal(t, 1, enqueuer.count())
}

func TestRunJobEnqueueFailureNotRecorded(t *testing.T) {
	ctx := context.Background()
	tracker := newTracker(t)
	job := validJob("daily")
	s := newTestService(t, &fakeEnqueuer{err: errQueueDown}, tracker, nil, job)

	s.runJob(ctx, job)

	run, err := tracker.LastRun(ctx, "daily")
	require.NoError(t, err)
	assert.Nil(t, run)
}

func TestServiceStartStop(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	job := validJob("fast")
	job.Schedule = "@every 1s"
	s := newTestService(t, enqueuer, nil, nil, job)

	require.NoError(t, s.Start(context.Background()))

	assert.Eventually(t, func() bool { return enqueuer.count() > 0 }, 5*time.Second, 100*time.Millisecond)

	require.NoError(t, s.Stop())
}

func TestServiceReportsRoleChanges(t *testing.T) {
	elector := &fakeElector{}
	s := newTestService(t, &fakeEnqueuer{}, nil, elector, validJob("daily"), validJob("hourly"))

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	require.NotNil(t, elector.onChange, "scheduler subscribes to role changes")
	assert.Equal(t, []string{"daily", "hourly"}, s.jobNames())

	leaderChanges := promtest.ToFloat64(observability.SchedulerRoleChanges.WithLabelValues(string(RoleLeader)))

	elector.onChange(RoleLeader)
	assert.InDelta(t, 1.0, promtest.ToFloat64(observability.SchedulerLeader), 1e-9)
	assert.InDelta(t, leaderChanges+1, promtest.ToFloat64(observability.SchedulerRoleChanges.WithLabelValues(string(RoleLeader))), 1e-9)

	elector.onChange(RoleFollower)
	assert.InDelta(t, 0.0, promtest.ToFloat64(observability.SchedulerLeader), 1e-9)
}
