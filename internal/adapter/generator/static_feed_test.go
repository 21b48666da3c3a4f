package generator

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticFeed_FixedPrices(t *testing.T) {
	feed := NewStaticFeed("test-generator", map[string]float64{"ethereum": 3000}, 0, zerolog.Nop())

	p, err := feed.FetchPrice(context.Background(), "ethereum")
	require.NoError(t, err)
	assert.Equal(t, 3000.0, p.USDPrice)
	assert.Equal(t, "test-generator", p.Source)
	assert.Equal(t, 3000.0, feed.FetchUSDPrice(context.Background(), "ethereum"))
}

func TestStaticFeed_UnknownAsset(t *testing.T) {
	feed := NewStaticFeed("test-generator", nil, 0, zerolog.Nop())

	_, err := feed.FetchPrice(context.Background(), "dogecoin")
	require.Error(t, err)
	assert.Zero(t, feed.FetchUSDPrice(context.Background(), "dogecoin"))
}

func TestStaticFeed_JitterStaysInBand(t *testing.T) {
	feed := NewStaticFeed("test-generator", map[string]float64{"sol": 100}, 0.05, zerolog.Nop())

	for i := 0; i < 200; i++ {
		got := feed.FetchUSDPrice(context.Background(), "sol")
		assert.GreaterOrEqual(t, got, 95.0)
		assert.LessOrEqual(t, got, 105.0)
	}
}

func TestStaticFeed_CancelledContext(t *testing.T) {
	feed := NewStaticFeed("test-generator", map[string]float64{"sol": 100}, 0, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Zero(t, feed.FetchUSDPrice(ctx, "sol"))
}
