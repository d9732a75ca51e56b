package scheduler

import (
	"testing"

	"github.com/ethpandaops/persona/pkg/persona"
	"github.com/stretchr/testify/assert"
)

func validJob(name string) JobConfig {
	return JobConfig{
		Name:     name,
		Schedule: "@every 1h",
		Targets:  "targets.json",
		Tasks:    "tasks.json",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "disabled ignores jobs",
			cfg:  Config{Enabled: false, Jobs: []JobConfig{{}}},
		},
		{
			name: "valid jobs",
			cfg:  Config{Enabled: true, Jobs: []JobConfig{validJob("daily"), validJob("hourly")}},
		},
		{
			name:    "missing name",
			cfg:     Config{Enabled: true, Jobs: []JobConfig{validJob("")}},
			wantErr: ErrJobNameRequired,
		},
		{
			name: "invalid schedule",
			cfg: Config{Enabled: true, Jobs: []JobConfig{func() JobConfig {
				j := validJob("daily")
				j.Schedule = "every day"
				return j
			}()}},
			wantErr: ErrInvalidSchedule,
		},
		{
			name: "missing tasks",
			cfg: Config{Enabled: true, Jobs: []JobConfig{func() JobConfig {
				j := validJob("daily")
				j.Tasks = ""
				return j
			}()}},
			wantErr: ErrJobPathsRequired,
		},
		{
			name: "invalid window",
			cfg: Config{Enabled: true, Jobs: []JobConfig{func() JobConfig {
				j := validJob("daily")
				j.StartTime = "2024/01/01"
				return j
			}()}},
			wantErr: persona.ErrInvalidTimeBound,
		},
		{
			name:    "duplicate names",
			cfg:     Config{Enabled: true, Jobs: []JobConfig{validJob("daily"), validJob("daily")}},
			wantErr: ErrDuplicateJob,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
