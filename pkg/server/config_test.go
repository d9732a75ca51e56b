package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethpandaops/persona/internal/testutil"
	"github.com/ethpandaops/persona/pkg/api"
	"github.com/ethpandaops/persona/pkg/redis"
	"github.com/ethpandaops/persona/pkg/scheduler"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
redis:
  url: redis://localhost:6379/0
worker:
  concurrency: 2
scheduler:
  enabled: true
  jobs:
    - name: daily
      schedule: "0 2 * * *"
      targets: /data/targets.json
      tasks: /data/tasks.json
      startTime: "2024-01-01"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Logging)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "persona", cfg.Redis.Prefix)
	assert.True(t, cfg.API.Enabled)
	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.Equal(t, "data", cfg.API.DatasetDir)
	assert.True(t, cfg.Worker.Enabled)
	assert.Equal(t, 2, cfg.Worker.Concurrency)
	assert.Equal(t, "generation", cfg.Worker.Queue)
	assert.Equal(t, 4, cfg.Persona.Concurrency)
	assert.Equal(t, 168*time.Hour, cfg.Store.RunTTL)
	require.Len(t, cfg.Scheduler.Jobs, 1)
	assert.Equal(t, "2024-01-01", cfg.Scheduler.Jobs[0].StartTime)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		path := writeConfig(t, "redis:\n  url: redis://localhost:6379/0\n")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing redis url", mutate: func(c *Config) { c.Redis.URL = "" }, wantErr: redis.ErrURLRequired},
		{name: "zero persona concurrency", mutate: func(c *Config) { c.Persona.Concurrency = 0 }, wantErr: ErrInvalidConcurrency},
		{name: "api without dataset dir", mutate: func(c *Config) { c.API.DatasetDir = "" }, wantErr: api.ErrDatasetDirRequired},
		{
			name: "nothing enabled",
			mutate: func(c *Config) {
				c.API.Enabled = false
				c.Worker.Enabled = false
			},
			wantErr: ErrNothingEnabled,
		},
		{
			name: "bad scheduled job",
			mutate: func(c *Config) {
				c.Scheduler.Enabled = true
				c.Scheduler.Jobs = []scheduler.JobConfig{{Name: "broken", Schedule: "never"}}
			},
			wantErr: scheduler.ErrInvalidSchedule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewServerAndHealth(t *testing.T) {
	mr, _ := testutil.NewMiniredisClient(t)

	cfg, err := LoadConfig(writeConfig(t, "redis:\n  url: redis://"+mr.Addr()+"/0\n"))
	require.NoError(t, err)

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	srv, err := NewServer(context.Background(), log, cfg)
	require.NoError(t, err)
	assert.NotNil(t, srv.api)
	assert.NotNil(t, srv.worker)
	assert.Nil(t, srv.scheduler)

	t.Cleanup(func() {
		_ = srv.queue.Close()
		_ = srv.redis.Close()
	})

	handler := srv.healthHandler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)

	mr.Close()

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", http.NoBody))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
