package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"forecast_agent/pkg/core/config"
)

// Manager resolves which provider serves each pipeline role ("qualitative",
// "synthesis") from configuration and supports runtime switching of the
// global active provider.
type Manager struct {
	mu        sync.RWMutex
	cfg       config.LLMConfig
	providers map[string]Provider
}

// NewManager builds a Manager with the standard provider set.
func NewManager(cfg config.Config) *Manager {
	return &Manager{
		cfg: cfg.LLM,
		providers: map[string]Provider{
			"gemini":   &GeminiProvider{Model: cfg.GeminiModel},
			"deepseek": &DeepSeekProvider{},
		},
	}
}

// ProviderFor returns the provider for a pipeline role. Role-specific
// overrides win over the global active provider; an unknown configuration
// falls back to gemini.
func (m *Manager) ProviderFor(role string) Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if rc, ok := m.cfg.Roles[role]; ok && rc.Provider != "" {
		if p, ok := m.providers[rc.Provider]; ok {
			return p
		}
	}
	if p, ok := m.providers[m.cfg.ActiveProvider]; ok {
		return p
	}
	return m.providers["gemini"]
}

// SetActiveProvider switches the global provider at runtime.
func (m *Manager) SetActiveProvider(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("provider %s not found", name)
	}
	m.cfg.ActiveProvider = name
	fmt.Printf("[LLM] Global provider set to: %s\n", name)
	return nil
}

// ActiveProvider returns the name of the current global provider.
func (m *Manager) ActiveProvider() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.ActiveProvider
}

// RoleProvider is a Provider that resolves its backing provider at call time,
// so runtime switches via SetActiveProvider apply to long-lived pipelines.
type RoleProvider struct {
	Mgr  *Manager
	Role string
}

var _ Provider = (*RoleProvider)(nil)

func (r *RoleProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	return r.Mgr.ProviderFor(r.Role).GenerateResponse(ctx, prompt, systemPrompt, options)
}

// Available lists the registered provider names.
func (m *Manager) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
