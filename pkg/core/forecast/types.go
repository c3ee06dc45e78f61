package forecast

import (
	"forecast_agent/pkg/core/extractor"
	"forecast_agent/pkg/core/market"
	"forecast_agent/pkg/core/qualitative"
)

// DefaultTaskNote is used when the caller supplies none.
const DefaultTaskNote = "Generate qualitative forecast for the upcoming quarter"

// DefaultQuarters is the number of past reports analyzed by default.
const DefaultQuarters = 3

// EvidenceQuery is the canonical topical query run against the transcript
// index for every forecast.
const EvidenceQuery = "guidance OR outlook OR demand OR margin OR headcount OR deal OR opportunity"

// Request carries the caller's parameters for one forecast run.
type Request struct {
	Quarters            int      `json:"quarters"`
	IncludeMarketData   bool     `json:"include_market_data"`
	TaskNote            string   `json:"task_note"`
	MarketPriceOverride *float64 `json:"market_price_override,omitempty"`
}

// NumericEstimates are the model's point estimates for next quarter.
type NumericEstimates struct {
	RevenueChangeQoQPct     *float64 `json:"revenue_change_qoq_pct"`
	OperatingMarginExpected *float64 `json:"operating_margin_expected"`
	NetProfitChangeQoQPct   *float64 `json:"net_profit_change_qoq_pct"`
}

// Forecast is the synthesized output. When the model's reply cannot be
// parsed, Fallback is set and the raw reply plus both pipeline inputs are
// carried instead, so the response shape stays stable for downstream code.
type Forecast struct {
	ForecastSummary     string            `json:"forecast_summary,omitempty"`
	NumericEstimates    *NumericEstimates `json:"numeric_estimates,omitempty"`
	Trends              []string          `json:"trends,omitempty"`
	ManagementSentiment string            `json:"management_sentiment,omitempty"`
	Risks               []string          `json:"risks,omitempty"`
	Opportunities       []string          `json:"opportunities,omitempty"`
	ConfidenceScore     float64           `json:"confidence_score,omitempty"`
	SupportingEvidence  []string          `json:"supporting_evidence,omitempty"`

	Fallback  bool                   `json:"fallback,omitempty"`
	RawOutput string                 `json:"raw_output,omitempty"`
	Metrics   extractor.MetricReport `json:"metrics,omitempty"`
	Analysis  *qualitative.Analysis  `json:"analysis,omitempty"`
}

// Result is the top-level response for one request. Created once, never
// mutated after being returned; a copy goes to the audit log.
type Result struct {
	RequestID          string                 `json:"request_id"`
	Request            Request                `json:"request"`
	Metrics            extractor.MetricReport `json:"metrics"`
	TranscriptAnalysis *qualitative.Analysis  `json:"transcript_analysis"`
	Forecast           *Forecast              `json:"forecast"`
	Market             *market.Quote          `json:"market,omitempty"`
}
