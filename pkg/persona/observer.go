package persona

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Observer receives progress events from Generate. Implementations must be safe
// for concurrent use when Options.Concurrency is greater than one.
type Observer interface {
	GenerationStarted(targets, tasks int, window TimeRange)
	TasksFiltered(kept, total int)
	UserProcessed(stats UserStats)
	GenerationFinished(personas int, elapsed time.Duration)
	GenerationFailed(err error)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) GenerationStarted(int, int, TimeRange) {}
func (NopObserver) TasksFiltered(int, int) {}
func (NopObserver) UserProcessed(UserStats) {}
func (NopObserver) GenerationFinished(int, time.Duration) {}
func (NopObserver) GenerationFailed(error) {}

// Observers fans every event out to each observer in order.
type Observers []Observer

func (o Observers) GenerationStarted(targets, tasks int, window TimeRange) {
	for _, obs := range o {
		obs.GenerationStarted(targets, tasks, window)
	}
}

func (o Observers) TasksFiltered(kept, total int) {
	for _, obs := range o {
		obs.TasksFiltered(kept, total)
	}
}

func (o Observers) UserProcessed(stats UserStats) {
	for _, obs := range o {
		obs.UserProcessed(stats)
	}
}

func (o Observers) GenerationFinished(personas int, elapsed time.Duration) {
	for _, obs := range o {
		obs.GenerationFinished(personas, elapsed)
	}
}

func (o Observers) GenerationFailed(err error) {
	for _, obs := range o {
		obs.GenerationFailed(err)
	}
}

type logObserver struct {
	log logrus.FieldLogger
}

// NewLogObserver reports generation progress to a logrus logger.
func NewLogObserver(log logrus.FieldLogger) Observer {
	return &logObserver{log: log.WithField("component", "persona")}
}

func (l *logObserver) GenerationStarted(targets, tasks int, window TimeRange) {
	entry := l.log.WithFields(logrus.Fields{
		"targets": targets,
		"tasks":   tasks,
	})
	if !window.IsZero() {
		entry = entry.WithField("window", window.String())
	}

	entry.Info("Generating user personas")
}

func (l *logObserver) TasksFiltered(kept, total int) {
	if kept == total {
		return
	}

	l.log.WithFields(logrus.Fields{
		"kept":  kept,
		"total": total,
	}).Info("Filtered tasks by time window")
}

func (l *logObserver) UserProcessed(stats UserStats) {
	entry := l.log.WithFields(logrus.Fields{
		"user_id": stats.UserID,
		"tasks":   stats.Tasks,
		"targets": stats.RelatedTargets,
	})
	if stats.Unresolved > 0 {
		entry = entry.WithField("unresolved", stats.Unresolved)
	}

	entry.Debug("Generated persona")
}

func (l *logObserver) GenerationFinished(personas int, elapsed time.Duration) {
	l.log.WithFields(logrus.Fields{
		"personas": personas,
		"elapsed":  elapsed,
	}).Info("User persona generation complete")
}

func (l *logObserver) GenerationFailed(err error) {
	l.log.WithError(err).Error("User persona generation failed")
}
