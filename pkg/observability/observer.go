package observability

import (
	"time"

	"github.com/ethpandaops/persona/pkg/persona"
)

// Generation sources used as metric labels.
const (
	SourceCLI    = "cli"
	SourceAPI    = "api"
	SourceWorker = "worker"
)

// MetricsObserver records persona generation events as Prometheus metrics.
type MetricsObserver struct {
	source string
}

// NewMetricsObserver creates an observer labelling every metric with source.
func NewMetricsObserver(source string) *MetricsObserver {
	return &MetricsObserver{source: source}
}

var _ persona.Observer = (*MetricsObserver)(nil)

func (m *MetricsObserver) GenerationStarted(_, tasks int, _ persona.TimeRange) {
	GenerationsRunning.WithLabelValues(m.source).Inc()
	TasksInput.WithLabelValues(m.source).Add(float64(tasks))
}

func (m *MetricsObserver) TasksFiltered(kept, total int) {
	TasksFiltered.WithLabelValues(m.source).Add(float64(total - kept))
}

func (m *MetricsObserver) UserProcessed(stats persona.UserStats) {
	PersonasGenerated.WithLabelValues(m.source).Inc()
	UserTasks.WithLabelValues(m.source).Observe(float64(stats.Tasks))

	if stats.Unresolved > 0 {
		UnresolvedTasks.WithLabelValues(m.source).Add(float64(stats.Unresolved))
	}
}

func (m *MetricsObserver) GenerationFinished(_ int, elapsed time.Duration) {
	GenerationsRunning.WithLabelValues(m.source).Dec()
	GenerationsTotal.WithLabelValues(m.source, "success").Inc()
	GenerationDuration.WithLabelValues(m.source).Observe(elapsed.Seconds())
}

func (m *MetricsObserver) GenerationFailed(_ error) {
	GenerationsRunning.WithLabelValues(m.source).Dec()
	GenerationsTotal.WithLabelValues(m.source, "failed").Inc()
	RecordError("persona", "generation")
}
