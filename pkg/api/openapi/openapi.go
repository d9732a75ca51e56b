// Package openapi embeds the API document and validates request bodies against it.
package openapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	// SchemaGenerateRequest is the body of POST /personas
	SchemaGenerateRequest = "GenerateRequest"
	// SchemaJobRequest is the body of POST /jobs
	SchemaJobRequest = "JobRequest"
)

//go:embed openapi.yaml
var document []byte //nolint:gochecknoglobals // embedded asset

var (
	// ErrUnknownSchema is returned when validating against a schema the document lacks
	ErrUnknownSchema = errors.New("unknown schema")
	// ErrInvalidBody is returned when a body does not match its schema
	ErrInvalidBody = errors.New("invalid request body")
)

// Document returns the raw embedded OpenAPI document.
func Document() []byte {
	return document
}

// Validator checks JSON bodies against component schemas of the document.
type Validator struct {
	doc *openapi3.T
}

// NewValidator loads and validates the embedded document.
func NewValidator(ctx context.Context) (*Validator, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	return &Validator{doc: doc}, nil
}

// Validate checks body against the named component schema.
func (v *Validator) Validate(schema string, body []byte) error {
	ref, ok := v.doc.Components.Schemas[schema]
	if !ok || ref.Value == nil {
		return fmt.Errorf("%w: %s", ErrUnknownSchema, schema)
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	if err := ref.Value.VisitJSON(value); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	return nil
}
