// Package qualitative turns semantic-search evidence from earnings-call
// transcripts into a structured sentiment/themes/risks analysis via a single
// LLM call, with a defined fallback when the reply isn't valid JSON.
package qualitative

import (
	"context"
	"fmt"
	"strings"

	"forecast_agent/pkg/core/index"
	"forecast_agent/pkg/core/jsonutil"
	"forecast_agent/pkg/core/llm"
	"forecast_agent/pkg/core/prompt"
)

// Searcher answers similarity queries over the transcript corpus. The index
// manager satisfies this, building the index lazily on first use.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]index.SearchHit, error)
}

// Insight is the structured object requested from the model.
type Insight struct {
	Themes              []string `json:"themes"`
	ManagementSentiment string   `json:"management_sentiment"`
	ForwardStatements   []string `json:"forward_statements"`
	Risks               []string `json:"risks"`
	Opportunities       []string `json:"opportunities"`
	Evidence            []string `json:"evidence"`
}

// AnalysisResult carries either the parsed insight or, when the model's reply
// could not be parsed, the raw text with Fallback set. Callers branch on the
// tag instead of relying on suppressed errors.
type AnalysisResult struct {
	Fallback bool     `json:"fallback,omitempty"`
	Insight  *Insight `json:"insight,omitempty"`
	RawText  string   `json:"raw_analysis,omitempty"`
}

// Analysis is the full qualitative output: the ranked hits are always
// retained so evidence provenance can be verified independently of model
// output quality.
type Analysis struct {
	SearchHits []index.SearchHit `json:"search_hits"`
	Result     AnalysisResult    `json:"analysis"`
}

// Analyzer issues one semantic search plus one structured-generation call per
// Analyze invocation.
type Analyzer struct {
	searcher    Searcher
	provider    llm.Provider
	maxResults  int
	temperature float64
}

// NewAnalyzer wires the analyzer. maxResults is the search k (config,
// default 6).
func NewAnalyzer(searcher Searcher, provider llm.Provider, maxResults int, temperature float64) *Analyzer {
	if maxResults <= 0 {
		maxResults = 6
	}
	return &Analyzer{
		searcher:    searcher,
		provider:    provider,
		maxResults:  maxResults,
		temperature: temperature,
	}
}

// snippetSeparator joins evidence snippets in the prompt.
const snippetSeparator = "\n\n----\n\n"

// evidenceBlock concatenates hits with source attribution.
func evidenceBlock(hits []index.SearchHit) string {
	parts := make([]string, 0, len(hits))
	for _, h := range hits {
		parts = append(parts, fmt.Sprintf("[source: %s]\n%s", h.Source, h.Snippet))
	}
	return strings.Join(parts, snippetSeparator)
}

// Analyze runs the search, asks the model for a structured insight and
// returns both. Model replies that fail to parse become a fallback result;
// only search or provider transport failures are surfaced as errors.
func (a *Analyzer) Analyze(ctx context.Context, query string) (*Analysis, error) {
	hits, err := a.searcher.Search(ctx, query, a.maxResults)
	if err != nil {
		return nil, fmt.Errorf("semantic search failed: %w", err)
	}
	if hits == nil {
		hits = []index.SearchHit{}
	}

	system, user, err := prompt.Get().Render(prompt.QualitativeInsightsID, map[string]interface{}{
		"Snippets": evidenceBlock(hits),
		"Query":    query,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render qualitative prompt: %w", err)
	}

	reply, err := a.provider.GenerateResponse(ctx, user, system, map[string]interface{}{
		llm.OptTemperature:    a.temperature,
		llm.OptResponseFormat: "json_object",
	})
	if err != nil {
		return nil, fmt.Errorf("qualitative model call failed: %w", err)
	}

	analysis := &Analysis{SearchHits: hits}
	var insight Insight
	if err := jsonutil.SmartParse(reply, &insight); err != nil {
		fmt.Printf("[QUALITATIVE] Warning: model reply was not valid JSON, returning raw text: %v\n", err)
		analysis.Result = AnalysisResult{Fallback: true, RawText: reply}
		return analysis, nil
	}
	analysis.Result = AnalysisResult{Insight: &insight}
	return analysis, nil
}
