// Package forecast orchestrates one end-to-end forecast: metric extraction
// from reports, qualitative transcript analysis, an optional market fact, and
// a final structured-generation call that merges them.
package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"forecast_agent/pkg/core/corpus"
	"forecast_agent/pkg/core/extractor"
	"forecast_agent/pkg/core/jsonutil"
	"forecast_agent/pkg/core/llm"
	"forecast_agent/pkg/core/market"
	"forecast_agent/pkg/core/prompt"
	"forecast_agent/pkg/core/qualitative"
)

// QualitativeAnalyzer is the evidence-analysis dependency.
type QualitativeAnalyzer interface {
	Analyze(ctx context.Context, query string) (*qualitative.Analysis, error)
}

// Synthesizer wires the full pipeline.
type Synthesizer struct {
	extractor   *extractor.Extractor
	reports     *corpus.Loader
	analyzer    QualitativeAnalyzer
	marketData  market.Provider
	provider    llm.Provider
	ticker      string
	temperature float64
}

// NewSynthesizer builds the orchestrator. marketData may be nil, in which
// case only override prices are served.
func NewSynthesizer(ext *extractor.Extractor, reports *corpus.Loader, analyzer QualitativeAnalyzer,
	marketData market.Provider, provider llm.Provider, ticker string, temperature float64) *Synthesizer {
	return &Synthesizer{
		extractor:   ext,
		reports:     reports,
		analyzer:    analyzer,
		marketData:  marketData,
		provider:    provider,
		ticker:      ticker,
		temperature: temperature,
	}
}

// Run executes one forecast. Stages run sequentially; each remote call is a
// single bounded request governed by ctx. There is no partial result: any
// surfaced error invalidates the whole run, while parse failures degrade
// gracefully inside their stage.
func (s *Synthesizer) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	if req.Quarters <= 0 {
		req.Quarters = DefaultQuarters
	}
	if req.TaskNote == "" {
		req.TaskNote = DefaultTaskNote
	}

	// 1. Metrics from the most recent reports. Zero documents is an empty
	// report, not an error.
	metrics, err := s.extractor.ForReports(ctx, s.reports, req.Quarters)
	if err != nil {
		return nil, err
	}
	fmt.Printf("[FORECAST] Extracted metrics from %d report(s)\n", len(metrics))

	// 2. Qualitative evidence from transcripts.
	analysis, err := s.analyzer.Analyze(ctx, EvidenceQuery)
	if err != nil {
		return nil, fmt.Errorf("qualitative analysis failed: %w", err)
	}
	fmt.Printf("[FORECAST] Qualitative analysis done with %d evidence hit(s)\n", len(analysis.SearchHits))

	// 3. Optional market fact. An override bypasses the capability entirely.
	var quote *market.Quote
	if req.IncludeMarketData {
		q, err := s.fetchMarket(ctx, req)
		if err != nil {
			return nil, err
		}
		quote = q
	}

	// 4. Single synthesis call.
	fc, err := s.synthesize(ctx, req, metrics, analysis)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RequestID:          uuid.NewString(),
		Request:            req,
		Metrics:            metrics,
		TranscriptAnalysis: analysis,
		Forecast:           fc,
		Market:             quote,
	}
	fmt.Printf("[FORECAST] Completed request %s in %v\n", result.RequestID, time.Since(start))
	return result, nil
}

func (s *Synthesizer) fetchMarket(ctx context.Context, req Request) (*market.Quote, error) {
	if req.MarketPriceOverride != nil {
		q := market.Override(s.ticker, *req.MarketPriceOverride)
		return &q, nil
	}
	if s.marketData == nil {
		q, _ := market.Placeholder{}.CurrentPrice(ctx, s.ticker)
		return &q, nil
	}
	q, err := s.marketData.CurrentPrice(ctx, s.ticker)
	if err != nil {
		return nil, fmt.Errorf("market data fetch failed: %w", err)
	}
	return &q, nil
}

// synthesize issues the one structured-generation call and parses the reply,
// constructing the schema-stable fallback when parsing fails.
func (s *Synthesizer) synthesize(ctx context.Context, req Request, metrics extractor.MetricReport, analysis *qualitative.Analysis) (*Forecast, error) {
	metricsJSON, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize metrics: %w", err)
	}
	analysisJSON, err := json.MarshalIndent(analysis.Result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize analysis: %w", err)
	}

	system, user, err := prompt.Get().Render(prompt.ForecastSynthesisID, map[string]interface{}{
		"MetricsJSON":  string(metricsJSON),
		"AnalysisJSON": string(analysisJSON),
		"TaskNote":     req.TaskNote,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render synthesis prompt: %w", err)
	}

	reply, err := s.provider.GenerateResponse(ctx, user, system, map[string]interface{}{
		llm.OptTemperature:    s.temperature,
		llm.OptResponseFormat: "json_object",
	})
	if err != nil {
		return nil, fmt.Errorf("synthesis model call failed: %w", err)
	}

	var fc Forecast
	if err := jsonutil.SmartParse(reply, &fc); err != nil {
		fmt.Printf("[FORECAST] Warning: synthesis reply was not valid JSON, returning fallback: %v\n", err)
		return &Forecast{
			Fallback:  true,
			RawOutput: reply,
			Metrics:   metrics,
			Analysis:  analysis,
		}, nil
	}
	return &fc, nil
}
