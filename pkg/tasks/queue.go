package tasks

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/ethpandaops/persona/pkg/observability"
	"github.com/hibiken/asynq"
)

// QueueManager manages task queuing
type QueueManager struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	queue     string
}

// NewQueueManager creates a new queue manager enqueuing on queue
func NewQueueManager(redisOpt *asynq.RedisClientOpt, queue string) *QueueManager {
	if queue == "" {
		queue = DefaultQueue
	}

	return &QueueManager{
		client:    asynq.NewClient(*redisOpt),
		inspector: asynq.NewInspector(*redisOpt),
		queue:     queue,
	}
}

// Queue returns the queue name tasks are enqueued on
func (q *QueueManager) Queue() string {
	return q.queue
}

// NewGenerationTask builds the Asynq task for a payload
func NewGenerationTask(payload GeneratePayload) (*asynq.Task, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TypePersonaGeneration, data), nil
}

// EnqueueGeneration enqueues a generation task
func (q *QueueManager) EnqueueGeneration(payload GeneratePayload, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if payload.EnqueuedAt.IsZero() {
		payload.EnqueuedAt = time.Now().UTC()
	}

	task, err := NewGenerationTask(payload)
	if err != nil {
		return nil, err
	}

	// Default options
	defaultOpts := []asynq.Option{
		asynq.TaskID(payload.UniqueID()),
		asynq.Queue(q.queue),
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Minute),
		asynq.Retention(24 * time.Hour),
	}

	allOpts := defaultOpts
	allOpts = append(allOpts, opts...)

	info, err := q.client.Enqueue(task, allOpts...)
	if err != nil {
		observability.RecordError("queue", "enqueue_error")
		return nil, err
	}

	observability.RecordJobEnqueued(payload.Trigger)

	return info, nil
}

// GetTaskInfo returns the state of a previously enqueued run; nil when unknown
func (q *QueueManager) GetTaskInfo(runID string) (*asynq.TaskInfo, error) {
	info, err := q.inspector.GetTaskInfo(q.queue, runID)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return info, nil
}

// Close closes the queue manager
func (q *QueueManager) Close() error {
	if err := q.inspector.Close(); err != nil {
		return err
	}

	return q.client.Close()
}
