// Package extractor turns unstructured report text into typed financial
// metrics using a configurable table of regular-expression rules.
package extractor

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"forecast_agent/pkg/core/corpus"
)

// Metric names the recognized financial metrics.
type Metric string

const (
	MetricTotalRevenue    Metric = "total_revenue"
	MetricNetProfit       Metric = "net_profit"
	MetricOperatingMargin Metric = "operating_margin"
	MetricEPS             Metric = "eps"
)

// Rule binds a metric to the pattern that locates it in report text. The
// pattern's first capture group must be the numeric token.
type Rule struct {
	Metric  Metric
	Pattern *regexp.Regexp
}

// DefaultRules returns the built-in rule table, tuned to common phrasings in
// IT-services quarterly and annual reports. Alternative phrasings or languages
// are added by constructing an Extractor with a different table, not by
// touching the extraction logic.
func DefaultRules() []Rule {
	return []Rule{
		{MetricTotalRevenue, regexp.MustCompile(`(?i)(?:total\s+revenue|revenue\s+for\s+the\s+quarter|revenue\s+for\s+the\s+year|revenue\s+from\s+operations)[:\s]*[₹$]?\s*(\(?[0-9][0-9,.]*\)?)`)},
		{MetricNetProfit, regexp.MustCompile(`(?i)(?:net\s+profit|profit\s+after\s+tax|net\s+income|profit\s+for\s+the\s+year)[:\s]*[₹$]?\s*(\(?[0-9][0-9,.]*\)?)`)},
		{MetricOperatingMargin, regexp.MustCompile(`(?i)(?:operating\s+margin|operating\s+profit\s+margin)[:\s]*\(?([0-9]{1,3}\.?[0-9]?)%?\)?`)},
		{MetricEPS, regexp.MustCompile(`(?i)(?:earnings\s+per\s+share|eps)[:\s]*[₹$]?\s*(\(?[0-9][0-9,.]*\)?)`)},
	}
}

// MetricSet maps metric name to its extracted value. A metric whose pattern
// found no match, or whose match failed numeric parsing, is absent from the
// map, never zero.
type MetricSet map[Metric]float64

// ReportMetrics is the MetricSet extracted from one report document.
type ReportMetrics struct {
	Source  string    `json:"source"`
	AsOf    time.Time `json:"as_of"`
	Metrics MetricSet `json:"metrics"`
}

// MetricReport is ordered most-recent-file-first.
type MetricReport []ReportMetrics

// Extractor applies a rule table to raw text.
type Extractor struct {
	rules []Rule
}

// New returns an Extractor with the default rule table.
func New() *Extractor {
	return &Extractor{rules: DefaultRules()}
}

// NewWithRules returns an Extractor with a custom rule table.
func NewWithRules(rules []Rule) *Extractor {
	return &Extractor{rules: rules}
}

// FromText extracts every metric whose pattern matches. Only the first match
// per metric is taken; later mentions (narrative restatements, summary tables)
// are ignored. Extraction is best-effort per metric: a failed parse drops the
// metric rather than erroring.
func (e *Extractor) FromText(text string) MetricSet {
	metrics := make(MetricSet)
	for _, rule := range e.rules {
		m := rule.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if val, ok := ParseNumber(m[1]); ok {
			metrics[rule.Metric] = val
		}
	}
	return metrics
}

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// ParseNumber normalizes a matched numeric token: thousands separators are
// stripped and parenthesized values become negative (accounting convention).
// If the cleaned token still fails to parse, all remaining non-numeric runes
// are stripped and the parse retried once. ok is false when no value could
// be recovered.
func ParseNumber(raw string) (float64, bool) {
	r := strings.NewReplacer(",", "", "(", "-", ")", "").Replace(raw)
	r = strings.TrimSpace(r)
	if f, err := strconv.ParseFloat(r, 64); err == nil {
		return f, true
	}
	r = nonNumeric.ReplaceAllString(r, "")
	if f, err := strconv.ParseFloat(r, 64); err == nil {
		return f, true
	}
	return 0, false
}

// ForReports loads every recognized document from the loader's directory,
// ranks them by modification time (most recent first), keeps the top
// `quarters` and extracts a MetricSet for each. Requesting more quarters than
// documents exist returns all of them; an empty directory yields an empty
// report, not an error.
func (e *Extractor) ForReports(ctx context.Context, loader *corpus.Loader, quarters int) (MetricReport, error) {
	docs, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ModTime.After(docs[j].ModTime)
	})

	if quarters < 0 {
		quarters = 0
	}
	if quarters < len(docs) {
		docs = docs[:quarters]
	}

	report := make(MetricReport, 0, len(docs))
	for _, doc := range docs {
		report = append(report, ReportMetrics{
			Source:  doc.Name,
			AsOf:    doc.ModTime,
			Metrics: e.FromText(doc.Content),
		})
	}
	return report, nil
}
