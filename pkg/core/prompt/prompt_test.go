package prompt

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsRegistered(t *testing.T) {
	r := Get()
	r.Reset()

	for _, id := range []string{QualitativeInsightsID, ForecastSynthesisID} {
		if _, err := r.GetPrompt(id); err != nil {
			t.Errorf("default prompt %s missing: %v", id, err)
		}
	}
}

func TestRenderSubstitutesVariables(t *testing.T) {
	r := Get()
	r.Reset()

	system, user, err := r.Render(QualitativeInsightsID, map[string]interface{}{
		"Snippets": "[source: call.txt]\nDemand is strong.",
		"Query":    "guidance OR outlook",
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if system == "" {
		t.Error("expected a system prompt")
	}
	if !strings.Contains(user, "Demand is strong.") || !strings.Contains(user, "guidance OR outlook") {
		t.Errorf("variables not substituted:\n%s", user)
	}
}

func TestLoadFromDirectoryOverridesDefault(t *testing.T) {
	r := Get()
	r.Reset()
	defer r.Reset()

	dir := t.TempDir()
	promptDir := filepath.Join(dir, "prompts", "forecast")
	if err := os.MkdirAll(promptDir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	override := Template{
		SystemPrompt:   "You are terse.",
		UserPromptTmpl: "Metrics: {{.MetricsJSON}}",
		Version:        "2.0",
	}
	data, _ := json.Marshal(override)
	if err := os.WriteFile(filepath.Join(promptDir, "synthesis.json"), data, 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if err := LoadFromDirectory(dir); err != nil {
		t.Fatalf("LoadFromDirectory failed: %v", err)
	}

	got, err := r.GetPrompt(ForecastSynthesisID)
	if err != nil {
		t.Fatalf("override not registered under path-derived ID: %v", err)
	}
	if got.SystemPrompt != "You are terse." || got.Category != "forecast" {
		t.Errorf("unexpected override: %+v", got)
	}
}
