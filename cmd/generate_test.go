package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/ethpandaops/persona/internal/testutil"
	"github.com/ethpandaops/persona/pkg/dataset"
	"github.com/ethpandaops/persona/pkg/persona"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeScenario(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	targets := filepath.Join(dir, "targets.json")
	tasks := filepath.Join(dir, "tasks.yaml")

	require.NoError(t, dataset.WriteFile(targets, testutil.ScenarioTargets()))
	require.NoError(t, dataset.WriteFile(tasks, testutil.ScenarioTasks()))

	return targets, tasks
}

func TestGenerateFromFiles(t *testing.T) {
	targets, tasks := writeScenario(t)

	personas, err := generateFromFiles(logrus.New(), targets, tasks, persona.Options{Concurrency: 2})
	require.NoError(t, err)
	require.Len(t, personas, 1)
	assert.Equal(t, "A_B", personas[0].UserID)

	personas, err = generateFromFiles(logrus.New(), targets, tasks, persona.Options{
		TimeRange: persona.TimeRange{Start: "2025-01-01"},
	})
	require.NoError(t, err)
	assert.Empty(t, personas)

	_, err = generateFromFiles(logrus.New(), targets, tasks, persona.Options{
		TimeRange: persona.TimeRange{End: "yesterday"},
	})
	require.ErrorIs(t, err, persona.ErrInvalidTimeBound)

	_, err = generateFromFiles(logrus.New(), filepath.Join(t.TempDir(), "nope.json"), tasks, persona.Options{})
	require.Error(t, err)
}

func TestWriteOutput(t *testing.T) {
	targets, tasks := writeScenario(t)

	personas, err := generateFromFiles(logrus.New(), targets, tasks, persona.Options{})
	require.NoError(t, err)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeOutput(&buf, personas, "json"))

		var decoded []persona.Persona
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, personas[0].PersonaTags, decoded[0].PersonaTags)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeOutput(&buf, personas, "yaml"))
		assert.Contains(t, buf.String(), "user_id: A_B")
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeOutput(&buf, personas, "text"))
		assert.Contains(t, buf.String(), "A_B")
	})

	t.Run("xlsx", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeOutput(&buf, personas, "xlsx"))

		f, err := excelize.OpenReader(&buf)
		require.NoError(t, err)
		defer f.Close()
		assert.NotEmpty(t, f.GetSheetList())
	})

	t.Run("unsupported", func(t *testing.T) {
		var buf bytes.Buffer
		require.ErrorIs(t, writeOutput(&buf, personas, "csv"), ErrUnsupportedOutput)
	})
}

func TestLoadCLIConfigDefaults(t *testing.T) {
	cfg, err := LoadCLIConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "json", cfg.Format)
}
