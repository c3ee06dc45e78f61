// Package market defines the market-data capability consumed by the forecast
// synthesizer. Real-time quotes are out of scope; the shipped provider is an
// explicit placeholder, and an absent price is a valid result.
package market

import "context"

// Quote is a point-in-time price fact. Price is nil when the source has
// nothing to offer.
type Quote struct {
	Ticker string   `json:"ticker"`
	Price  *float64 `json:"price"`
	Source string   `json:"source,omitempty"`
	Note   string   `json:"note,omitempty"`
}

// Provider fetches the current price for a ticker.
type Provider interface {
	CurrentPrice(ctx context.Context, ticker string) (Quote, error)
}

// Placeholder is the default Provider: it returns no price with a note
// explaining that a real market API has not been plugged in.
type Placeholder struct{}

var _ Provider = (*Placeholder)(nil)

// CurrentPrice returns a priceless quote. This is a valid, non-error outcome.
func (Placeholder) CurrentPrice(ctx context.Context, ticker string) (Quote, error) {
	return Quote{
		Ticker: ticker,
		Price:  nil,
		Note:   "not implemented - plug market API",
	}, nil
}

// Override wraps a caller-supplied price with "override" provenance.
func Override(ticker string, price float64) Quote {
	return Quote{
		Ticker: ticker,
		Price:  &price,
		Source: "override",
	}
}
