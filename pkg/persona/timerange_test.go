package persona

import (
	"testing"

	"github.com/ethpandaops/persona/internal/testutil"
	"github.com/ethpandaops/persona/pkg/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reqIDs(tasks []records.Task) []string {
	ids := make([]string, 0, len(tasks))
	for i := range tasks {
		ids = append(ids, tasks[i].ReqID)
	}
	return ids
}

func TestTimeRangeFilter(t *testing.T) {
	tasks := []records.Task{
		testutil.NewTask("r1", testutil.WithStart("2024-01-01 00:00:00")),
		testutil.NewTask("r2", testutil.WithStart("2024-06-30 00:00:00")),
		testutil.NewTask("r3", testutil.WithStart("2024-06-30 08:00:00")),
		testutil.NewTask("r4", testutil.WithStart("2024-07-01 00:00:00")),
		testutil.NewTask("r5", testutil.WithStart("2023-12-31 23:59:59")),
	}

	tests := []struct {
		name     string
		window   TimeRange
		expected []string
	}{
		{
			name:     "no bounds keeps everything in order",
			window:   TimeRange{},
			expected: []string{"r1", "r2", "r3", "r4", "r5"},
		},
		{
			name:     "start bound is inclusive",
			window:   TimeRange{Start: "2024-06-30 00:00:00"},
			expected: []string{"r2", "r3", "r4"},
		},
		{
			name:     "end bound is inclusive",
			window:   TimeRange{End: "2024-01-01 00:00:00"},
			expected: []string{"r1", "r5"},
		},
		{
			name:     "date-only end bound excludes later times on the same day",
			window:   TimeRange{Start: "2024-01-01", End: "2024-06-30"},
			expected: []string{"r1"},
		},
		{
			name:     "date-only start bound includes midnight",
			window:   TimeRange{Start: "2024-07-01"},
			expected: []string{"r4"},
		},
		{
			name:     "empty window",
			window:   TimeRange{Start: "2025-01-01"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, reqIDs(tt.window.Filter(tasks)))
		})
	}
}

func TestTimeRangeFilterDoesNotModifyInput(t *testing.T) {
	tasks := testutil.ScenarioTasks()
	before := reqIDs(tasks)

	_ = TimeRange{Start: "2024-02-01"}.Filter(tasks)

	assert.Equal(t, before, reqIDs(tasks))
}

func TestTimeRangeContainsMatchesLexicalOrder(t *testing.T) {
	window := TimeRange{Start: "2024-03-01", End: "2024-03-31 23:59:59"}
	times := []string{
		"2024-02-29 23:59:59",
		"2024-03-01 00:00:00",
		"2024-03-15 12:30:00",
		"2024-03-31 23:59:59",
		"2024-04-01 00:00:00",
	}

	for _, ts := range times {
		expected := ts >= window.Start && ts <= window.End
		assert.Equal(t, expected, window.Contains(ts), ts)
	}
}

func TestTimeRangeValidate(t *testing.T) {
	tests := []struct {
		name    string
		window  TimeRange
		wantErr bool
	}{
		{name: "empty", window: TimeRange{}},
		{name: "date bounds", window: TimeRange{Start: "2024-01-01", End: "2024-12-31"}},
		{name: "datetime bounds", window: TimeRange{Start: "2024-01-01 00:00:00", End: "2024-12-31 23:59:59"}},
		{name: "slash separated", window: TimeRange{Start: "2024/01/01"}, wantErr: true},
		{name: "not zero padded", window: TimeRange{End: "2024-1-1"}, wantErr: true},
		{name: "iso T separator", window: TimeRange{End: "2024-01-01T00:00:00"}, wantErr: true},
		{name: "impossible date", window: TimeRange{Start: "2024-13-01"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.window.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimeBound)
				return
			}
			require.NoError(t, err)
		})
	}
}
