package prompt

// Prompt IDs used by the forecast pipeline.
const (
	QualitativeInsightsID = "qualitative.insights"
	ForecastSynthesisID   = "forecast.synthesis"
)

// registerDefaults installs the compiled-in prompt templates. Files loaded
// from a resources directory replace these by ID.
func registerDefaults(r *Registry) {
	r.Register(&Template{
		ID:           QualitativeInsightsID,
		Name:         "Transcript Qualitative Insights",
		Category:     "qualitative",
		Description:  "Distills earnings-call snippets into themes, sentiment, risks and opportunities.",
		Version:      "1.0",
		SystemPrompt: "You are a helpful financial analyst. You respond with a single valid JSON object and nothing else.",
		UserPromptTmpl: `Given the transcript snippets below, produce a JSON object with keys:
- themes: list of 3-6 short bullets
- management_sentiment: "positive", "neutral", or "negative"
- forward_statements: short quotes or paraphrases
- risks: short list of risks
- opportunities: short list of opportunities
- evidence: list of "<text snippet> - <source>"

Snippets:
{{.Snippets}}

Query: {{.Query}}

Return only valid JSON.`,
	})

	r.Register(&Template{
		ID:           ForecastSynthesisID,
		Name:         "Quarterly Forecast Synthesis",
		Category:     "forecast",
		Description:  "Merges extracted metrics and transcript analysis into a structured next-quarter forecast.",
		Version:      "1.0",
		SystemPrompt: "You are a senior financial analyst for an IT services company. You respond with a single valid JSON object and nothing else.",
		UserPromptTmpl: `Use the inputs below to produce a JSON object with keys:
- forecast_summary: short paragraph (2-4 sentences) describing the expected direction for revenue and margins next quarter.
- numeric_estimates: dict with keys revenue_change_qoq_pct, operating_margin_expected, net_profit_change_qoq_pct
- trends: list of bullet strings
- management_sentiment: "positive", "neutral", or "negative"
- risks: list of short strings
- opportunities: list of short strings
- confidence_score: float between 0 and 1
- supporting_evidence: list of short strings referencing evidence and source filenames

Inputs:
Metrics JSON:
{{.MetricsJSON}}

Transcript Analysis JSON:
{{.AnalysisJSON}}

Task note:
{{.TaskNote}}

Return only valid JSON.`,
	})
}
