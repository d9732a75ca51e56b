package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	leaderKey     = "scheduler:leader" // {prefix}:scheduler:leader -> instance id
	leaseTTL      = 10 * time.Second
	renewInterval = 3 * time.Second
)

// Role is the part an instance plays in enqueueing scheduled jobs
type Role string

const (
	// RoleFollower skips scheduled ticks
	RoleFollower Role = "follower"
	// RoleLeader enqueues scheduled jobs
	RoleLeader Role = "leader"
)

// RoleChangeFunc is called after every role transition
type RoleChangeFunc func(role Role)

// LeaderElector decides which serve instance enqueues scheduled jobs
type LeaderElector interface {
	// Start campaigns for the scheduler lease until ctx ends or Stop is called
	Start(ctx context.Context, onChange RoleChangeFunc) error

	// Stop ends the campaign and releases the lease if held
	Stop() error

	// IsLeader reports whether this instance currently holds the lease
	IsLeader() bool
}

// Both scripts only touch the lease while ARGV[1] still owns it.
var (
	renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

	releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)
)

// leaseElector holds a Redis lease keyed by instance id
type leaseElector struct {
	log        logrus.FieldLogger
	redis      *redis.Client
	instanceID string
	key        string

	mu       sync.RWMutex
	role     Role
	onChange RoleChangeFunc

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewLeaderElector creates a leader elector on a shared Redis client
func NewLeaderElector(log logrus.FieldLogger, client *redis.Client, keys KeyPrefixer) LeaderElector {
	instanceID := uuid.New().String()

	return &leaseElector{
		log: log.WithFields(logrus.Fields{
			"component":   "election",
			"instance_id": instanceID,
		}),
		redis:      client,
		instanceID: instanceID,
		key:        keys.PrefixKey(leaderKey),
		role:       RoleFollower,
		done:       make(chan struct{}),
	}
}

func (e *leaseElector) Start(ctx context.Context, onChange RoleChangeFunc) error {
	e.mu.Lock()
	e.onChange = onChange
	e.mu.Unlock()

	e.log.WithField("lease_key", e.key).Info("Campaigning for scheduler lease")

	e.wg.Add(1)
	go e.run(ctx)

	return nil
}

func (e *leaseElector) Stop() error {
	e.stopOnce.Do(func() {
		close(e.done)
		e.wg.Wait()

		ctx, cancel := context.WithTimeout(context.Background(), leaseTTL)
		defer cancel()

		e.release(ctx)
	})

	return nil
}

func (e *leaseElector) IsLeader() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.role == RoleLeader
}

// run campaigns once immediately, then on every renew interval
func (e *leaseElector) run(ctx context.Context) {
	defer e.wg.Done()

	e.campaign(ctx)

	ticker := time.NewTicker(renewInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.campaign(ctx)
		}
	}
}

// campaign acquires a free lease or extends one this instance owns.
// A Redis error demotes the instance.
func (e *leaseElector) campaign(ctx context.Context) {
	held, err := e.hold(ctx)
	if err != nil {
		e.log.WithError(err).Warn("Scheduler lease check failed")
	}

	if held {
		e.transition(RoleLeader)
		return
	}

	e.transition(RoleFollower)
}

func (e *leaseElector) hold(ctx context.Context) (bool, error) {
	acquired, err := e.redis.SetNX(ctx, e.key, e.instanceID, leaseTTL).Result()
	if err != nil {
		return false, err
	}

	if acquired {
		return true, nil
	}

	renewed, err := renewScript.Run(ctx, e.redis, []string{e.key}, e.instanceID, leaseTTL.Milliseconds()).Int()
	if err != nil {
		return false, err
	}

	return renewed == 1, nil
}

// release drops the lease if this instance still owns it
func (e *leaseElector) release(ctx context.Context) {
	if !e.IsLeader() {
		return
	}

	deleted, err := releaseScript.Run(ctx, e.redis, []string{e.key}, e.instanceID).Int()
	if err != nil {
		e.log.WithError(err).Warn("Failed to release scheduler lease")
	} else if deleted == 1 {
		e.log.Info("Released scheduler lease")
	}

	e.transition(RoleFollower)
}

// transition records role and notifies onChange when it differs from the current one
func (e *leaseElector) transition(role Role) {
	e.mu.Lock()
	if e.role == role {
		e.mu.Unlock()
		return
	}

	e.role = role
	onChange := e.onChange
	e.mu.Unlock()

	e.log.WithField("role", role).Debug("Scheduler role changed")

	if onChange != nil {
		onChange(role)
	}
}

var _ LeaderElector = (*leaseElector)(nil)
