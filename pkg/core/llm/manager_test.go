package llm

import (
	"testing"

	"forecast_agent/pkg/core/config"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.LLM = config.LLMConfig{
		ActiveProvider: "gemini",
		Roles: map[string]config.RoleConfig{
			"synthesis": {Provider: "deepseek"},
		},
	}
	return cfg
}

func TestProviderForRoleOverride(t *testing.T) {
	m := NewManager(testConfig())

	if _, ok := m.ProviderFor("synthesis").(*DeepSeekProvider); !ok {
		t.Error("synthesis role should resolve to the deepseek override")
	}
	if _, ok := m.ProviderFor("qualitative").(*GeminiProvider); !ok {
		t.Error("unconfigured role should resolve to the active provider")
	}
}

func TestProviderForUnknownActiveFallsBack(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.ActiveProvider = "nonsense"
	m := NewManager(cfg)

	if _, ok := m.ProviderFor("qualitative").(*GeminiProvider); !ok {
		t.Error("unknown active provider should fall back to gemini")
	}
}

func TestSetActiveProvider(t *testing.T) {
	m := NewManager(testConfig())

	if err := m.SetActiveProvider("deepseek"); err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if m.ActiveProvider() != "deepseek" {
		t.Errorf("expected deepseek, got %s", m.ActiveProvider())
	}
	if err := m.SetActiveProvider("gpt-99"); err == nil {
		t.Error("unknown provider should be rejected")
	}
}

func TestTemperatureOption(t *testing.T) {
	if got := Temperature(map[string]interface{}{OptTemperature: 0.7}, 0.0); got != 0.7 {
		t.Errorf("expected 0.7, got %v", got)
	}
	if got := Temperature(nil, 0.2); got != 0.2 {
		t.Errorf("expected default 0.2, got %v", got)
	}
	if !WantsJSON(map[string]interface{}{OptResponseFormat: "json_object"}) {
		t.Error("json_object should request JSON mode")
	}
	if WantsJSON(nil) {
		t.Error("nil options should not request JSON mode")
	}
}
