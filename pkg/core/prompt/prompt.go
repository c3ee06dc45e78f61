// Package prompt provides a centralized prompt library for LLM interactions.
// Prompts ship compiled-in as defaults and can be overridden by JSON files
// loaded at runtime, so wording changes don't require code changes.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"
)

// Template represents a reusable prompt with metadata.
type Template struct {
	ID             string `json:"id"`                   // Unique identifier (e.g., "forecast.synthesis")
	Name           string `json:"name"`                 // Human-readable name
	Category       string `json:"category"`             // Category (qualitative, forecast, ...)
	Description    string `json:"description"`          // Purpose of the prompt
	SystemPrompt   string `json:"system_prompt"`        // System prompt content
	UserPromptTmpl string `json:"user_prompt_template"` // Go template for the user prompt
	Version        string `json:"version"`              // Version for tracking changes
}

// Render executes the user prompt template with the given variables.
func (t *Template) Render(vars map[string]interface{}) (string, error) {
	tmpl, err := template.New(t.ID).Parse(t.UserPromptTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", t.ID, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", t.ID, err)
	}
	return buf.String(), nil
}
