package pricefeed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"donationflow/internal/domain/model"
	"donationflow/internal/domain/port"
)

const DefaultJupiterBaseURL = "https://lite-api.jup.ag"

// JupiterFeed prices Solana mints through the Jupiter Price API v3.
//
//	GET /price/v3?ids=<mint>
//	{"<mint>": {"usdPrice": 187.3, "blockId": 348004026, "decimals": 9}}
type JupiterFeed struct {
	httpFeed
}

func NewJupiterFeed(baseURL string, client *http.Client, log zerolog.Logger) port.PriceFeedPort {
	if baseURL == "" {
		baseURL = DefaultJupiterBaseURL
	}
	return &JupiterFeed{httpFeed: newHTTPFeed(model.FeedJupiter, baseURL, client, log)}
}

func (j *JupiterFeed) Name() string {
	return j.name
}

func (j *JupiterFeed) FetchPrice(ctx context.Context, mint string) (price model.Price, err error) {
	start := j.now()
	defer func() { j.observe(start, err) }()

	body, err := j.getJSON(ctx, "/price/v3", url.Values{"ids": {mint}})
	if err != nil {
		return model.Price{}, err
	}
	entry, err := assetEntry(body, mint)
	if err != nil {
		return model.Price{}, err
	}
	usd, err := numberField(entry, "usdPrice")
	if err != nil {
		return model.Price{}, err
	}

	price = model.Price{
		AssetID:   mint,
		Source:    j.name,
		USDPrice:  usd,
		FetchedAt: j.now().UTC(),
	}
	// blockId and decimals are informational; a malformed value does not
	// invalidate the price.
	if raw, ok := entry["blockId"]; ok {
		_ = json.Unmarshal(raw, &price.BlockID)
	}
	if raw, ok := entry["decimals"]; ok {
		_ = json.Unmarshal(raw, &price.Decimals)
	}
	return price, nil
}

func (j *JupiterFeed) FetchUSDPrice(ctx context.Context, mint string) float64 {
	return j.usdOrZero(ctx, mint, func(ctx context.Context, id string) (float64, error) {
		p, err := j.FetchPrice(ctx, id)
		return p.USDPrice, err
	})
}
