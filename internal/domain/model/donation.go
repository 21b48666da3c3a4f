package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultPresetAmounts are the USD buttons offered next to the custom amount.
var DefaultPresetAmounts = []float64{10, 50, 100}

// Quote is the USD to native token conversion for one donation.
type Quote struct {
	Chain          string          `json:"chain"`
	NetworkID      int64           `json:"network_id,omitempty"`
	Symbol         string          `json:"symbol"`
	USDAmount      float64         `json:"usd_amount"`
	Price          float64         `json:"price"`
	PriceAvailable bool            `json:"price_available"`
	TokenAmount    float64         `json:"token_amount"`
	TokenDisplay   decimal.Decimal `json:"token_display"`
	BaseUnits      string          `json:"base_units"`
	Balance        *float64        `json:"balance,omitempty"`
	BalanceUSD     decimal.Decimal `json:"balance_usd"`
	CanDonate      bool            `json:"can_donate"`
	Shortfall      float64         `json:"shortfall,omitempty"`
	QuotedAt       time.Time       `json:"quoted_at"`
}

// Donation is the receipt of a donation submitted by a wallet. Success is the
// only confirmation state tracked.
type Donation struct {
	ID          uuid.UUID `json:"id"`
	Chain       string    `json:"chain"`
	NetworkID   int64     `json:"network_id,omitempty"`
	USDAmount   float64   `json:"usd_amount"`
	TokenAmount float64   `json:"token_amount"`
	Signature   string    `json:"signature"`
	Sender      string    `json:"sender,omitempty"`
	Success     bool      `json:"success"`
	CreatedAt   time.Time `json:"created_at"`
}
