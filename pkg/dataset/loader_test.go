package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethpandaops/persona/internal/testutil"
	"github.com/ethpandaops/persona/pkg/persona"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
		wantErr  bool
	}{
		{path: "targets.json", expected: FormatJSON},
		{path: "/tmp/TASKS.JSON", expected: FormatJSON},
		{path: "tasks.yaml", expected: FormatYAML},
		{path: "tasks.yml", expected: FormatYAML},
		{path: "tasks.csv", wantErr: true},
		{path: "tasks", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			format, err := FormatFromPath(tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestLoadJSONDataset(t *testing.T) {
	dir := t.TempDir()

	targetsPath := filepath.Join(dir, "targets.json")
	require.NoError(t, os.WriteFile(targetsPath, []byte(`[
		{
			"target_id": "TGT001",
			"target_name": "port",
			"target_type": "港口",
			"target_category": "重要目标",
			"target_priority": 0.7,
			"target_area_type": "沿海",
			"group_list": [{"group_name": "技术组A", "source": "电子侦察", "status": "活跃"}],
			"trajectory_list": [{"lon": "120.1", "lat": "30.2", "alt": "50", "point_time": "2024-01-01 00:00:00", "speed": "20", "heading": "90", "seq": "1", "elect_silence": "否"}]
		}
	]`), 0o600))

	tasksPath := filepath.Join(dir, "tasks.json")
	require.NoError(t, os.WriteFile(tasksPath, []byte(`[
		{
			"req_id": "REQ000001",
			"topic_id": "TP000001",
			"req_unit": "A",
			"req_group": "B",
			"req_start_time": "2024-01-01 10:00:00",
			"req_end_time": "2024-01-01 12:00:00",
			"task_type": "1",
			"target_id": "TGT001",
			"country_name": "目标国A",
			"target_priority": 0.5,
			"is_emcon": "否",
			"scout_type": "光学侦察"
		}
	]`), 0o600))

	targets, err := LoadTargets(targetsPath)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "沿海", targets[0].TargetAreaType)
	require.Len(t, targets[0].GroupList, 1)
	assert.Equal(t, "技术组A", targets[0].GroupList[0].GroupName)
	require.Len(t, targets[0].TrajectoryList, 1)
	assert.Equal(t, "否", targets[0].TrajectoryList[0].ElectSilence)

	tasks, err := LoadTasks(tasksPath)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "A_B", tasks[0].UserKey())
	assert.InDelta(t, 0.5, tasks[0].TargetPriority, 1e-9)
}

func TestLoadYAMLDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- req_id: REQ1
  req_unit: U
  req_group: G
  req_start_time: "2024-02-01 00:00:00"
  target_id: TGT001
  task_type: "2"
  scout_type: 雷达侦察
`), 0o600))

	tasks, err := LoadTasks(path)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "U_G", tasks[0].UserKey())
	assert.Equal(t, "2", tasks[0].TaskType)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTasks(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadTargets(filepath.Join(dir, "targets.txt"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"not": "a list"}`), 0o600))
	_, err = LoadTasks(bad)
	require.Error(t, err)
}

func TestWritePersonas(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	personas, err := persona.Generate(testutil.ScenarioTargets(), testutil.ScenarioTasks(), persona.Options{Now: now})
	require.NoError(t, err)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePersonas(&buf, personas, FormatJSON))
		assert.Contains(t, buf.String(), `"user_id": "A_B"`)
		assert.Contains(t, buf.String(), `"region": "沿海"`)
		assert.NotContains(t, buf.String(), "target_id\": null")
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePersonas(&buf, personas, FormatYAML))
		assert.Contains(t, buf.String(), "user_id: A_B")
		assert.Contains(t, buf.String(), "algorithm_used: statistical_rules")
	})

	t.Run("nil personas encode as an empty list", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePersonas(&buf, nil, FormatJSON))
		assert.JSONEq(t, `[]`, buf.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		require.ErrorIs(t, WritePersonas(&buf, personas, Format("csv")), ErrUnsupportedFormat)
	})
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")
	require.NoError(t, WriteFile(path, testutil.ScenarioTargets()))

	targets, err := LoadTargets(path)
	require.NoError(t, err)
	assert.Equal(t, testutil.ScenarioTargets(), targets)
}
