// Package report renders generated personas for people: plain-text summaries and XLSX workbooks.
package report

import (
	"embed"
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/ethpandaops/persona/pkg/persona"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// TextRenderer renders personas with text templates and Sprig functions.
type TextRenderer struct {
	tmpl *template.Template
}

// NewTextRenderer parses the built-in summary template.
func NewTextRenderer() (*TextRenderer, error) {
	tmpl, err := template.New("summary.tmpl").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/summary.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return &TextRenderer{tmpl: tmpl}, nil
}

// NewTextRendererFromString parses a caller-supplied template. The template is
// executed with a value exposing .Personas.
func NewTextRendererFromString(content string) (*TextRenderer, error) {
	tmpl, err := template.New("custom").Funcs(sprig.TxtFuncMap()).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return &TextRenderer{tmpl: tmpl}, nil
}

// Render writes the report for personas to w.
func (r *TextRenderer) Render(w io.Writer, personas []persona.Persona) error {
	data := struct {
		Personas []persona.Persona
	}{
		Personas: personas,
	}

	if err := r.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}
