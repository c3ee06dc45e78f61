package prompt

import (
	"fmt"
	"sync"
)

// Registry holds all loaded prompt templates.
type Registry struct {
	prompts map[string]*Template
	mu      sync.RWMutex
}

var globalRegistry *Registry
var once sync.Once

// Get returns the global registry singleton, pre-populated with the
// compiled-in defaults.
func Get() *Registry {
	once.Do(func() {
		globalRegistry = &Registry{prompts: make(map[string]*Template)}
		registerDefaults(globalRegistry)
	})
	return globalRegistry
}

// Register adds a prompt template to the registry, replacing any existing
// template with the same ID.
func (r *Registry) Register(t *Template) error {
	if t.ID == "" {
		return fmt.Errorf("prompt ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.prompts[t.ID] = t
	return nil
}

// GetPrompt retrieves a prompt by ID.
func (r *Registry) GetPrompt(id string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.prompts[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("prompt not found: %s", id)
}

// Render looks up a prompt and renders its user template in one step,
// returning the system prompt alongside.
func (r *Registry) Render(id string, vars map[string]interface{}) (system string, user string, err error) {
	t, err := r.GetPrompt(id)
	if err != nil {
		return "", "", err
	}
	user, err = t.Render(vars)
	if err != nil {
		return "", "", err
	}
	return t.SystemPrompt, user, nil
}

// Count returns the number of registered prompts.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.prompts)
}

// Reset restores the registry to the compiled-in defaults (useful for tests).
func (r *Registry) Reset() {
	r.mu.Lock()
	r.prompts = make(map[string]*Template)
	r.mu.Unlock()
	registerDefaults(r)
}
