package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"donationflow/internal/domain/model"
)

type fakeFeed struct {
	name   string
	prices map[string]float64
	err    error

	mu    sync.Mutex
	calls []string
}

func (f *fakeFeed) Name() string { return f.name }

func (f *fakeFeed) FetchPrice(ctx context.Context, assetID string) (model.Price, error) {
	f.mu.Lock()
	f.calls = append(f.calls, assetID)
	f.mu.Unlock()

	if f.err != nil {
		return model.Price{}, f.err
	}
	p, ok := f.prices[assetID]
	if !ok {
		return model.Price{}, fmt.Errorf("missing %s", assetID)
	}
	return model.Price{AssetID: assetID, Source: f.name, USDPrice: p, FetchedAt: time.Now()}, nil
}

func (f *fakeFeed) FetchUSDPrice(ctx context.Context, assetID string) float64 {
	p, err := f.FetchPrice(ctx, assetID)
	if err != nil {
		return 0
	}
	return p.USDPrice
}

type fixedMode model.DataMode

func (m fixedMode) GetCurrentMode() model.DataMode { return model.DataMode(m) }

type fakeCache struct {
	mu       sync.Mutex
	claimed  map[string]bool
	released []string
	err      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{claimed: map[string]bool{}}
}

func (c *fakeCache) ClaimSignature(ctx context.Context, chain, signature string, ttl time.Duration) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := chain + ":" + signature
	if c.claimed[key] {
		return false, nil
	}
	c.claimed[key] = true
	return true, nil
}

func (c *fakeCache) ReleaseSignature(ctx context.Context, chain, signature string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := chain + ":" + signature
	delete(c.claimed, key)
	c.released = append(c.released, key)
	return nil
}

func (c *fakeCache) Ping(ctx context.Context) error { return c.err }
func (c *fakeCache) Close() error                   { return nil }

type fakeStorage struct {
	mu        sync.Mutex
	saved     []model.Donation
	err       error
	lastLimit int

	beforeSave func(context.Context) error
}

func (s *fakeStorage) SaveDonation(ctx context.Context, d *model.Donation) error {
	if s.beforeSave != nil {
		if err := s.beforeSave(ctx); err != nil {
			return err
		}
	}
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, *d)
	return nil
}

func (s *fakeStorage) RecentDonations(ctx context.Context, limit int) ([]model.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLimit = limit
	out := make([]model.Donation, 0, len(s.saved))
	for i := len(s.saved) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.saved[i])
	}
	return out, nil
}

func (s *fakeStorage) Ping(ctx context.Context) error { return s.err }
func (s *fakeStorage) Close() error                   { return nil }

type countingRecorder struct {
	mu    sync.Mutex
	count map[string]int
}

func (r *countingRecorder) RecordDonation(chain string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count == nil {
		r.count = map[string]int{}
	}
	r.count[fmt.Sprintf("%s/%t", chain, success)]++
}

var errBoom = errors.New("boom")
