package generator

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"donationflow/internal/domain/model"
	"donationflow/internal/domain/port"
)

// StaticFeed serves configured prices without touching the network. With a
// non-zero jitter each price moves randomly within ±jitter of its base.
type StaticFeed struct {
	name   string
	prices map[string]float64
	jitter float64
	log    zerolog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewStaticFeed(name string, prices map[string]float64, jitter float64, log zerolog.Logger) port.PriceFeedPort {
	copied := make(map[string]float64, len(prices))
	for k, v := range prices {
		copied[k] = v
	}
	return &StaticFeed{
		name:   name,
		prices: copied,
		jitter: jitter,
		log:    log,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *StaticFeed) Name() string { return s.name }

func (s *StaticFeed) FetchPrice(ctx context.Context, assetID string) (model.Price, error) {
	if err := ctx.Err(); err != nil {
		return model.Price{}, err
	}
	base, ok := s.prices[assetID]
	if !ok {
		return model.Price{}, fmt.Errorf("no test price configured for %s", assetID)
	}
	return model.Price{
		AssetID:   assetID,
		Source:    s.name,
		USDPrice:  s.jittered(base),
		FetchedAt: time.Now().UTC(),
	}, nil
}

func (s *StaticFeed) FetchUSDPrice(ctx context.Context, assetID string) float64 {
	p, err := s.FetchPrice(ctx, assetID)
	if err != nil {
		s.log.Warn().Err(err).Str("feed", s.name).Str("asset", assetID).Msg("price unavailable")
		return 0
	}
	return p.USDPrice
}

func (s *StaticFeed) jittered(base float64) float64 {
	if s.jitter <= 0 {
		return base
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return base * (1 + (s.rnd.Float64()*2-1)*s.jitter)
}
