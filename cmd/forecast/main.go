// Command forecast runs one forecast from the command line and prints the
// result as JSON. It shares configuration and pipeline wiring with cmd/api.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"forecast_agent/pkg/core/config"
	"forecast_agent/pkg/core/corpus"
	"forecast_agent/pkg/core/extractor"
	"forecast_agent/pkg/core/forecast"
	"forecast_agent/pkg/core/index"
	"forecast_agent/pkg/core/llm"
	"forecast_agent/pkg/core/market"
	"forecast_agent/pkg/core/prompt"
	"forecast_agent/pkg/core/qualitative"
)

func main() {
	godotenv.Load()

	configPath := flag.String("config", "config/config.yaml", "path to YAML config")
	quarters := flag.Int("quarters", forecast.DefaultQuarters, "number of recent quarterly reports to read")
	includeMarket := flag.Bool("market", false, "include the current market price in the result")
	note := flag.String("note", "", "task note appended to the synthesis prompt")
	priceOverride := flag.Float64("price", 0, "override the market price instead of fetching it")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(1)
	}

	if err := prompt.LoadFromDirectory("resources"); err != nil {
		fmt.Fprintf(os.Stderr, "[PROMPT] Using built-in prompts: %v\n", err)
	}

	llmMgr := llm.NewManager(cfg)
	reports := corpus.NewLoader(cfg.ReportsDir, nil)
	transcripts := corpus.NewLoader(cfg.TranscriptsDir, nil)

	embedder := &llm.GeminiEmbedder{Model: cfg.EmbeddingModel}
	idxMgr := index.NewManager(cfg.IndexPath, transcripts, embedder)

	analyzer := qualitative.NewAnalyzer(idxMgr,
		&llm.RoleProvider{Mgr: llmMgr, Role: "qualitative"},
		cfg.MaxSearchResults, cfg.Temperature)

	synthesizer := forecast.NewSynthesizer(extractor.New(), reports, analyzer,
		market.Placeholder{},
		&llm.RoleProvider{Mgr: llmMgr, Role: "synthesis"},
		cfg.Ticker, cfg.Temperature)

	req := forecast.Request{
		Quarters:          *quarters,
		IncludeMarketData: *includeMarket,
		TaskNote:          *note,
	}
	if *priceOverride != 0 {
		req.IncludeMarketData = true
		req.MarketPriceOverride = priceOverride
	}

	result, err := synthesizer.Run(context.Background(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] Forecast failed: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
