package port

import (
	"context"

	"donationflow/internal/domain/model"
)

// PriceFeedPort fetches USD prices from an upstream price API.
type PriceFeedPort interface {
	Name() string
	// FetchPrice returns the detailed observation, or an error describing why
	// no price is available.
	FetchPrice(ctx context.Context, assetID string) (model.Price, error)
	// FetchUSDPrice returns the USD price, or 0 when it cannot be fetched.
	// It never fails.
	FetchUSDPrice(ctx context.Context, assetID string) float64
}
