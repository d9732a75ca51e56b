// Package dataset reads task and target collections from files and writes persona output.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethpandaops/persona/pkg/persona"
	"github.com/ethpandaops/persona/pkg/records"
	"gopkg.in/yaml.v3"
)

// Format is a serialization format for datasets and persona output.
type Format string

const (
	// FormatJSON is JSON
	FormatJSON Format = "json"
	// FormatYAML is YAML
	FormatYAML Format = "yaml"
)

var (
	// ErrUnsupportedFormat is returned for file extensions or formats that cannot be handled
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// FileLoader loads datasets from the local filesystem.
type FileLoader struct{}

// LoadTargets implements target loading for FileLoader.
func (FileLoader) LoadTargets(path string) ([]records.Target, error) {
	return LoadTargets(path)
}

// LoadTasks implements task loading for FileLoader.
func (FileLoader) LoadTasks(path string) ([]records.Task, error) {
	return LoadTasks(path)
}

// LoadTargets reads a list of target records from a JSON or YAML file.
func LoadTargets(path string) ([]records.Target, error) {
	var targets []records.Target
	if err := loadFile(path, &targets); err != nil {
		return nil, fmt.Errorf("failed to load targets from %s: %w", path, err)
	}

	return targets, nil
}

// LoadTasks reads a list of task records from a JSON or YAML file.
func LoadTasks(path string) ([]records.Task, error) {
	var tasks []records.Task
	if err := loadFile(path, &tasks); err != nil {
		return nil, fmt.Errorf("failed to load tasks from %s: %w", path, err)
	}

	return tasks, nil
}

func loadFile(path string, out any) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-provided dataset path
	if err != nil {
		return err
	}

	return Decode(data, format, out)
}

// Decode unmarshals data in the given format into out.
func Decode(data []byte, format Format, out any) error {
	switch format {
	case FormatJSON:
		return json.Unmarshal(data, out)
	case FormatYAML:
		return yaml.Unmarshal(data, out)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Encode writes v to w in the given format.
func Encode(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// WritePersonas writes personas to w as a JSON or YAML list.
func WritePersonas(w io.Writer, personas []persona.Persona, format Format) error {
	if personas == nil {
		personas = []persona.Persona{}
	}

	return Encode(w, personas, format)
}

// WriteFile encodes v into path, choosing the format from the extension.
func WriteFile(path string, v any) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path) //nolint:gosec // User-provided output path
	if err != nil {
		return err
	}

	if err := Encode(f, v, format); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
