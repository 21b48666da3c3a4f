package pricefeed

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"donationflow/internal/domain/model"
	"donationflow/internal/domain/port"
)

const DefaultCoinGeckoBaseURL = "https://api.coingecko.com"

// CoinGeckoFeed prices coins by CoinGecko id.
//
//	GET /api/v3/simple/price?ids=<id>&vs_currencies=usd
//	{"<id>": {"usd": 3120.55}}
type CoinGeckoFeed struct {
	httpFeed
}

func NewCoinGeckoFeed(baseURL string, client *http.Client, log zerolog.Logger) port.PriceFeedPort {
	if baseURL == "" {
		baseURL = DefaultCoinGeckoBaseURL
	}
	return &CoinGeckoFeed{httpFeed: newHTTPFeed(model.FeedCoinGecko, baseURL, client, log)}
}

func (c *CoinGeckoFeed) Name() string {
	return c.name
}

func (c *CoinGeckoFeed) FetchPrice(ctx context.Context, coinID string) (price model.Price, err error) {
	start := c.now()
	defer func() { c.observe(start, err) }()

	body, err := c.getJSON(ctx, "/api/v3/simple/price", url.Values{
		"ids":           {coinID},
		"vs_currencies": {"usd"},
	})
	if err != nil {
		return model.Price{}, err
	}
	entry, err := assetEntry(body, coinID)
	if err != nil {
		return model.Price{}, err
	}
	usd, err := numberField(entry, "usd")
	if err != nil {
		return model.Price{}, err
	}

	return model.Price{
		AssetID:   coinID,
		Source:    c.name,
		USDPrice:  usd,
		FetchedAt: c.now().UTC(),
	}, nil
}

func (c *CoinGeckoFeed) FetchUSDPrice(ctx context.Context, coinID string) float64 {
	return c.usdOrZero(ctx, coinID, func(ctx context.Context, id string) (float64, error) {
		p, err := c.FetchPrice(ctx, id)
		return p.USDPrice, err
	})
}
