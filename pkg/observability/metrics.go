package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics must be global for registration
var (
	// GenerationsTotal tracks the total number of persona generation runs
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_generations_total",
			Help: "Total number of persona generation runs",
		},
		[]string{"source", "status"}, // source: cli, api, worker; status: success, failed
	)

	// GenerationDuration measures generation run duration in seconds
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "persona_generation_duration_seconds",
			Help:    "Persona generation run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
		[]string{"source"},
	)

	// GenerationsRunning tracks the number of generation runs in flight
	GenerationsRunning = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "persona_generations_running",
			Help: "Number of persona generation runs in flight",
		},
		[]string{"source"},
	)

	// TasksInput counts task records supplied to generation runs
	TasksInput = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_tasks_input_total",
			Help: "Total number of task records supplied to generation runs",
		},
		[]string{"source"},
	)

	// TasksFiltered counts task records dropped by the time window
	TasksFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_tasks_filtered_total",
			Help: "Total number of task records dropped by the time window",
		},
		[]string{"source"},
	)

	// UnresolvedTasks counts tasks whose target id did not resolve
	UnresolvedTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_unresolved_tasks_total",
			Help: "Total number of tasks referencing an unknown target",
		},
		[]string{"source"},
	)

	// PersonasGenerated counts personas produced
	PersonasGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_personas_generated_total",
			Help: "Total number of personas generated",
		},
		[]string{"source"},
	)

	// UserTasks observes the task count per generated persona
	UserTasks = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "persona_user_tasks",
			Help:    "Number of tasks per generated persona",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10), // 1 to ~260k
		},
		[]string{"source"},
	)

	// PersonasStored counts personas written to the store
	PersonasStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_personas_stored_total",
			Help: "Total number of personas written to the store",
		},
		[]string{"status"}, // status: success, error
	)

	// JobsEnqueued counts generation jobs enqueued
	JobsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_jobs_enqueued_total",
			Help: "Total number of generation jobs enqueued",
		},
		[]string{"trigger"}, // trigger: api, schedule
	)

	// JobsProcessed counts generation jobs processed by workers
	JobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_jobs_processed_total",
			Help: "Total number of generation jobs processed",
		},
		[]string{"status"}, // status: success, failed
	)

	// SchedulerLeader is 1 while this instance holds the scheduler lease
	SchedulerLeader = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "persona_scheduler_leader",
			Help: "Whether this instance holds the scheduler lease (1) or not (0)",
		},
	)

	// SchedulerRoleChanges counts scheduler lease transitions
	SchedulerRoleChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_scheduler_role_changes_total",
			Help: "Total number of scheduler role transitions",
		},
		[]string{"role"}, // role: leader, follower
	)

	// ErrorsTotal counts total number of errors
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordPersonasStored records a store write
func RecordPersonasStored(status string, count int) {
	PersonasStored.WithLabelValues(status).Add(float64(count))
}

// RecordJobEnqueued records a generation job enqueue
func RecordJobEnqueued(trigger string) {
	JobsEnqueued.WithLabelValues(trigger).Inc()
}

// RecordJobProcessed records a processed generation job
func RecordJobProcessed(status string) {
	JobsProcessed.WithLabelValues(status).Inc()
}

// RecordSchedulerRole records a scheduler role transition
func RecordSchedulerRole(role string, leader bool) {
	SchedulerRoleChanges.WithLabelValues(role).Inc()

	if leader {
		SchedulerLeader.Set(1)
		return
	}

	SchedulerLeader.Set(0)
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
