package openapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatorLoadsDocument(t *testing.T) {
	v, err := NewValidator(context.Background())
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Contains(t, string(Document()), "openapi: 3.0.3")
}

func TestValidate(t *testing.T) {
	v, err := NewValidator(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name    string
		schema  string
		body    string
		wantErr error
	}{
		{
			name:   "valid generate request",
			schema: SchemaGenerateRequest,
			body:   `{"targets":[{"target_id":"TGT001","target_priority":1}],"tasks":[{"req_unit":"A","req_group":"B"}],"start_time":"2024-01-01"}`,
		},
		{
			name:   "empty collections are left to generation",
			schema: SchemaGenerateRequest,
			body:   `{"targets":[],"tasks":[]}`,
		},
		{
			name:    "missing tasks",
			schema:  SchemaGenerateRequest,
			body:    `{"targets":[]}`,
			wantErr: ErrInvalidBody,
		},
		{
			name:    "wrong field type",
			schema:  SchemaGenerateRequest,
			body:    `{"targets":[{"target_id":"TGT001","target_priority":"high"}],"tasks":[]}`,
			wantErr: ErrInvalidBody,
		},
		{
			name:    "malformed json",
			schema:  SchemaGenerateRequest,
			body:    `{"targets":`,
			wantErr: ErrInvalidBody,
		},
		{
			name:   "valid job request",
			schema: SchemaJobRequest,
			body:   `{"targets_path":"targets.json","tasks_path":"tasks.json"}`,
		},
		{
			name:    "job request without paths",
			schema:  SchemaJobRequest,
			body:    `{}`,
			wantErr: ErrInvalidBody,
		},
		{
			name:    "unknown schema",
			schema:  "Nope",
			body:    `{}`,
			wantErr: ErrUnknownSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.schema, []byte(tt.body))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
