// Package config holds the explicit runtime configuration for the forecast
// agent. There is no global settings object: callers load a Config once and
// pass it to each component's constructor.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// LLMConfig selects providers per pipeline role.
type LLMConfig struct {
	ActiveProvider string                `yaml:"active_provider"`
	Roles          map[string]RoleConfig `yaml:"roles"`
}

// RoleConfig optionally overrides the provider for one role
// ("qualitative", "synthesis").
type RoleConfig struct {
	Provider    string `yaml:"provider"`
	Description string `yaml:"description"`
}

// Config is the full configuration surface consumed by the core.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	GeminiModel    string  `yaml:"gemini_model"`
	EmbeddingModel string  `yaml:"embedding_model"`
	Temperature    float64 `yaml:"temperature"`

	ReportsDir     string `yaml:"reports_dir"`
	TranscriptsDir string `yaml:"transcripts_dir"`
	IndexPath      string `yaml:"index_path"`

	MaxSearchResults int    `yaml:"max_search_results"`
	Ticker           string `yaml:"ticker"`

	LLM LLMConfig `yaml:"llm"`
}

// Default returns a Config carrying the defaults the agent runs with when no
// file or environment override is present.
func Default() Config {
	return Config{
		ListenAddr:       ":8080",
		GeminiModel:      "gemini-2.5-flash",
		EmbeddingModel:   "gemini-embedding-001",
		Temperature:      0.0,
		ReportsDir:       "data",
		TranscriptsDir:   "data",
		IndexPath:        "data/semantic_index.json",
		MaxSearchResults: 6,
		Ticker:           "TCS.NS",
		LLM: LLMConfig{
			ActiveProvider: "gemini",
		},
	}
}

// Load reads the YAML config file at path (if it exists) on top of defaults,
// then applies environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays environment variables onto the config. Only recognized
// keys are consulted.
func (c *Config) applyEnv() {
	setString(&c.ListenAddr, "LISTEN_ADDR")
	setString(&c.GeminiModel, "GEMINI_MODEL")
	setString(&c.EmbeddingModel, "EMBEDDING_MODEL")
	setString(&c.ReportsDir, "REPORTS_DIR")
	setString(&c.TranscriptsDir, "TRANSCRIPTS_DIR")
	setString(&c.IndexPath, "INDEX_STORE_PATH")
	setString(&c.Ticker, "TICKER")
	setString(&c.LLM.ActiveProvider, "LLM_PROVIDER")

	if v := os.Getenv("TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = f
		}
	}
	if v := os.Getenv("MAX_SEARCH_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxSearchResults = n
		}
	}
	// DATA_DIR sets both directories unless they were overridden individually.
	if v := os.Getenv("DATA_DIR"); v != "" {
		if os.Getenv("REPORTS_DIR") == "" {
			c.ReportsDir = v
		}
		if os.Getenv("TRANSCRIPTS_DIR") == "" {
			c.TranscriptsDir = v
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
