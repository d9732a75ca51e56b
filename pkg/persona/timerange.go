package persona

import (
	"fmt"
	"time"

	"github.com/ethpandaops/persona/pkg/records"
)

const (
	// DateLayout is the date-only bound layout
	DateLayout = "2006-01-02"
	// DateTimeLayout is the layout of task start times and full bounds
	DateTimeLayout = "2006-01-02 15:04:05"
)

// TimeRange is an optional inclusive window over task start times.
// An empty Start or End leaves that side unconstrained.
type TimeRange struct {
	Start string `json:"start_time,omitempty" yaml:"startTime,omitempty"`
	End   string `json:"end_time,omitempty" yaml:"endTime,omitempty"`
}

// IsZero reports whether neither bound is set.
func (r TimeRange) IsZero() bool {
	return r.Start == "" && r.End == ""
}

// Validate checks that every non-empty bound is a date or a datetime in the
// fixed zero-padded layouts. Lexical comparison is only meaningful for those.
func (r TimeRange) Validate() error {
	bounds := []struct {
		name  string
		value string
	}{
		{"start", r.Start},
		{"end", r.End},
	}

	for _, b := range bounds {
		if b.value == "" || isBoundLayout(b.value) {
			continue
		}

		return fmt.Errorf("%w: %s bound %q must be YYYY-MM-DD or YYYY-MM-DD HH:MM:SS", ErrInvalidTimeBound, b.name, b.value)
	}

	return nil
}

func isBoundLayout(bound string) bool {
	for _, layout := range []string{DateLayout, DateTimeLayout} {
		if len(bound) != len(layout) {
			continue
		}

		if _, err := time.Parse(layout, bound); err == nil {
			return true
		}
	}

	return false
}

// Contains reports whether a start time falls inside the window, comparing strings lexically.
func (r TimeRange) Contains(startTime string) bool {
	if r.Start != "" && startTime < r.Start {
		return false
	}

	if r.End != "" && startTime > r.End {
		return false
	}

	return true
}

// Filter returns the tasks whose start time lies in the window, preserving order.
// With no bounds set the input slice is returned as is.
func (r TimeRange) Filter(tasks []records.Task) []records.Task {
	if r.IsZero() {
		return tasks
	}

	filtered := make([]records.Task, 0, len(tasks))
	for i := range tasks {
		if r.Contains(tasks[i].ReqStartTime) {
			filtered = append(filtered, tasks[i])
		}
	}

	return filtered
}

// String renders the window for logs.
func (r TimeRange) String() string {
	start, end := r.Start, r.End
	if start == "" {
		start = "unbounded"
	}
	if end == "" {
		end = "unbounded"
	}

	return start + " .. " + end
}
