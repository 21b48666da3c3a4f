package model

import "time"

// Price is one USD observation for a single asset. A zero USDPrice means the
// price is unknown.
type Price struct {
	AssetID   string    `json:"asset_id"`
	Symbol    string    `json:"symbol,omitempty"`
	Source    string    `json:"source"`
	USDPrice  float64   `json:"usd_price"`
	BlockID   int64     `json:"block_id,omitempty"`
	Decimals  int       `json:"decimals,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Available reports whether the price can be used for conversion.
func (p Price) Available() bool {
	return p.USDPrice != 0
}
