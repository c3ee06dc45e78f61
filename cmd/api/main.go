package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	apiconfig "forecast_agent/pkg/api/config"
	apiforecast "forecast_agent/pkg/api/forecast"
	"forecast_agent/pkg/core/config"
	"forecast_agent/pkg/core/corpus"
	"forecast_agent/pkg/core/extractor"
	coreforecast "forecast_agent/pkg/core/forecast"
	"forecast_agent/pkg/core/index"
	"forecast_agent/pkg/core/llm"
	"forecast_agent/pkg/core/market"
	"forecast_agent/pkg/core/prompt"
	"forecast_agent/pkg/core/qualitative"
	"forecast_agent/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	// Initialize Prompt Library
	// Determine resources path (relative to executable or working directory)
	resourcesPath := "resources"
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		// Try from executable directory
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources")
	}
	if err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Falling back to hardcoded prompts")
	} else {
		fmt.Printf("[PROMPT] Loaded %d prompts from %s\n", prompt.Get().Count(), resourcesPath)
	}

	ctx := context.Background()

	// Optional audit database. DATABASE_URL unset means the endpoint runs
	// without request logging.
	var audit *store.RequestLogRepo
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pool, err := store.Connect(ctx, dbURL)
		if err != nil {
			fmt.Printf("[STORE] Warning: database unavailable, audit logging disabled: %v\n", err)
		} else {
			audit = store.NewRequestLogRepo(pool)
			if err := audit.EnsureSchema(ctx); err != nil {
				fmt.Printf("[STORE] Warning: failed to ensure schema: %v\n", err)
			}
		}
	} else {
		fmt.Println("[STORE] DATABASE_URL not set, audit logging disabled")
	}

	llmMgr := llm.NewManager(cfg)

	reports := corpus.NewLoader(cfg.ReportsDir, nil)
	transcripts := corpus.NewLoader(cfg.TranscriptsDir, nil)

	embedder := &llm.GeminiEmbedder{Model: cfg.EmbeddingModel}
	idxMgr := index.NewManager(cfg.IndexPath, transcripts, embedder)
	if idx := idxMgr.Open(); idx != nil {
		fmt.Printf("[INDEX] Loaded persisted index with %d entries\n", len(idx.Entries))
	} else {
		fmt.Println("[INDEX] No persisted index, will build on first search")
	}

	analyzer := qualitative.NewAnalyzer(idxMgr,
		&llm.RoleProvider{Mgr: llmMgr, Role: "qualitative"},
		cfg.MaxSearchResults, cfg.Temperature)

	synthesizer := coreforecast.NewSynthesizer(extractor.New(), reports, analyzer,
		market.Placeholder{},
		&llm.RoleProvider{Mgr: llmMgr, Role: "synthesis"},
		cfg.Ticker, cfg.Temperature)

	// Config endpoints
	configHandler := apiconfig.NewHandler(llmMgr, cfg.Ticker, cfg.ReportsDir, cfg.TranscriptsDir)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	// Forecast endpoint
	forecastHandler := apiforecast.NewHandler(synthesizer, audit)
	http.HandleFunc("/api/forecast", forecastHandler.HandleForecast)

	fmt.Printf("API server starting on %s...\n", cfg.ListenAddr)
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")
	fmt.Println("  - POST /api/forecast")

	// Use log.Fatal-style exit so a busy port surfaces as a nonzero status
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
