package persona

import (
	"time"

	"github.com/ethpandaops/persona/pkg/records"
	"golang.org/x/sync/errgroup"
)

// Options tune a single Generate call.
type Options struct {
	// TimeRange restricts tasks by start time. Both bounds are inclusive.
	TimeRange TimeRange
	// Algorithm is accepted for compatibility with callers that pass an algorithm
	// selection; statistical rules are always used.
	Algorithm map[string]any
	// Concurrency is the number of user groups evaluated in parallel. Values
	// below two evaluate groups sequentially.
	Concurrency int
	// Observer receives progress events. Nil discards them.
	Observer Observer
	// Now supplies generation timestamps. Nil uses time.Now.
	Now func() time.Time
}

func (o *Options) observer() Observer {
	if o.Observer == nil {
		return NopObserver{}
	}

	return o.Observer
}

func (o *Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}

	return o.Now()
}

// Generate builds one persona per requester identity found in tasks after time
// filtering. Personas are ordered by the first appearance of their identity.
// Inputs are never modified.
func Generate(targets []records.Target, tasks []records.Task, opts Options) ([]Persona, error) {
	obs := opts.observer()
	started := time.Now()

	obs.GenerationStarted(len(targets), len(tasks), opts.TimeRange)

	if err := validateInput(targets, tasks, opts.TimeRange); err != nil {
		obs.GenerationFailed(err)
		return nil, err
	}

	filtered := opts.TimeRange.Filter(tasks)
	obs.TasksFiltered(len(filtered), len(tasks))

	groups := GroupByUser(filtered, NewTargetIndex(targets))
	personas := make([]Persona, len(groups))

	if opts.Concurrency < 2 || len(groups) < 2 {
		for i, group := range groups {
			personas[i] = Assemble(group, opts.now())
			obs.UserProcessed(statsFor(group))
		}
	} else {
		var g errgroup.Group
		g.SetLimit(opts.Concurrency)

		for i, group := range groups {
			g.Go(func() error {
				personas[i] = Assemble(group, opts.now())
				obs.UserProcessed(statsFor(group))

				return nil
			})
		}

		_ = g.Wait()
	}

	obs.GenerationFinished(len(personas), time.Since(started))

	return personas, nil
}

func validateInput(targets []records.Target, tasks []records.Task, window TimeRange) error {
	if len(targets) == 0 {
		return ErrNoTargets
	}

	if len(tasks) == 0 {
		return ErrNoTasks
	}

	return window.Validate()
}
