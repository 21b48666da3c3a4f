package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donationflow/internal/domain/model"
	"donationflow/internal/domain/port"
)

type donationFixture struct {
	uc       *DonationUseCase
	cache    *fakeCache
	storage  *fakeStorage
	recorder *countingRecorder
}

func newDonationFixture() donationFixture {
	cache := newFakeCache()
	store := &fakeStorage{}
	rec := &countingRecorder{}
	chains := model.Presets(model.DefaultSolanaAddress, model.DefaultEVMAddress)
	uc := NewDonationUseCase(chains, store, cache, time.Hour, rec, zerolog.Nop())
	uc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return donationFixture{uc: uc, cache: cache, storage: store, recorder: rec}
}

func validSolanaRequest() RecordRequest {
	return RecordRequest{
		Chain:       "solana",
		USDAmount:   50,
		TokenAmount: 0.3333,
		Signature:   "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW",
		Sender:      model.DefaultSolanaAddress,
		Success:     true,
	}
}

func TestDonationUseCase_Record(t *testing.T) {
	f := newDonationFixture()

	d, err := f.uc.Record(context.Background(), validSolanaRequest())
	require.NoError(t, err)
	require.NotNil(t, d)

	assert.NotEqual(t, uuid.Nil, d.ID)
	assert.Equal(t, "solana", d.Chain)
	assert.Equal(t, 50.0, d.USDAmount)
	assert.True(t, d.Success)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), d.CreatedAt)

	require.Len(t, f.storage.saved, 1)
	assert.Equal(t, d.ID, f.storage.saved[0].ID)
	assert.Equal(t, 1, f.recorder.count["solana/true"])
}

func TestDonationUseCase_Record_Duplicate(t *testing.T) {
	f := newDonationFixture()
	req := validSolanaRequest()

	_, err := f.uc.Record(context.Background(), req)
	require.NoError(t, err)

	_, err = f.uc.Record(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateDonation))
	assert.Len(t, f.storage.saved, 1)

	// The same signature on another chain is a different transaction.
	evm := req
	evm.Chain = "evm"
	evm.Sender = ""
	_, err = f.uc.Record(context.Background(), evm)
	require.NoError(t, err)
}

func TestDonationUseCase_Record_StorageDuplicate(t *testing.T) {
	f := newDonationFixture()
	f.storage.err = fmt.Errorf("%w: sig", port.ErrDuplicate)

	_, err := f.uc.Record(context.Background(), validSolanaRequest())
	assert.True(t, errors.Is(err, ErrDuplicateDonation))
	assert.Empty(t, f.cache.released)
}

func TestDonationUseCase_Record_StorageFailureReleasesClaim(t *testing.T) {
	f := newDonationFixture()
	f.storage.err = errBoom

	_, err := f.uc.Record(context.Background(), validSolanaRequest())
	require.ErrorIs(t, err, errBoom)
	assert.Len(t, f.cache.released, 1)

	f.storage.err = nil
	_, err = f.uc.Record(context.Background(), validSolanaRequest())
	require.NoError(t, err)
}

func TestDonationUseCase_Record_CancelledRequestReleasesClaim(t *testing.T) {
	f := newDonationFixture()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// the client goes away while the insert is in flight
	f.storage.beforeSave = func(context.Context) error {
		cancel()
		return ctx.Err()
	}

	_, err := f.uc.Record(ctx, validSolanaRequest())
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, f.cache.released, 1)
	assert.Empty(t, f.cache.claimed)

	f.storage.beforeSave = nil
	d, err := f.uc.Record(context.Background(), validSolanaRequest())
	require.NoError(t, err)
	assert.Equal(t, validSolanaRequest().Signature, d.Signature)
	assert.Len(t, f.storage.saved, 1)
}

func TestDonationUseCase_Record_CacheFailure(t *testing.T) {
	f := newDonationFixture()
	f.cache.err = errBoom

	_, err := f.uc.Record(context.Background(), validSolanaRequest())
	require.ErrorIs(t, err, errBoom)
	assert.Empty(t, f.storage.saved)
}

func TestDonationUseCase_Record_Validation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(r *RecordRequest)
		wantErr error
	}{
		{"unknown chain", func(r *RecordRequest) { r.Chain = "tron" }, ErrUnknownChain},
		{"zero usd", func(r *RecordRequest) { r.USDAmount = 0 }, ErrInvalidDonation},
		{"negative usd", func(r *RecordRequest) { r.USDAmount = -5 }, ErrInvalidDonation},
		{"nan usd", func(r *RecordRequest) { r.USDAmount = math.NaN() }, ErrInvalidDonation},
		{"negative token", func(r *RecordRequest) { r.TokenAmount = -1 }, ErrInvalidDonation},
		{"blank signature", func(r *RecordRequest) { r.Signature = "   " }, ErrInvalidDonation},
		{"long signature", func(r *RecordRequest) { r.Signature = strings.Repeat("a", 129) }, ErrInvalidDonation},
		{"bad sender", func(r *RecordRequest) { r.Sender = "0x63be781E86736971F115fcf86Daa539A5e42E6B0" }, ErrInvalidDonation},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newDonationFixture()
			req := validSolanaRequest()
			c.mutate(&req)

			_, err := f.uc.Record(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, c.wantErr), "got %v", err)
			assert.Empty(t, f.storage.saved)
			assert.Empty(t, f.cache.claimed)
		})
	}
}

func TestDonationUseCase_Record_NormalizesEVMSender(t *testing.T) {
	f := newDonationFixture()
	req := RecordRequest{
		Chain:       "evm",
		NetworkID:   8453,
		USDAmount:   10,
		TokenAmount: 0.003,
		Signature:   "0xabc123",
		Sender:      strings.ToLower(model.DefaultEVMAddress),
	}

	d, err := f.uc.Record(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.NormalizeAddress("evm", model.DefaultEVMAddress), d.Sender)
	assert.Equal(t, int64(8453), d.NetworkID)
	assert.Equal(t, 1, f.recorder.count["evm/false"])
}

func TestDonationUseCase_Recent(t *testing.T) {
	f := newDonationFixture()
	for i := 0; i < 3; i++ {
		req := validSolanaRequest()
		req.Signature = fmt.Sprintf("sig-%d", i)
		_, err := f.uc.Record(context.Background(), req)
		require.NoError(t, err)
	}

	got, err := f.uc.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "sig-2", got[0].Signature)

	_, err = f.uc.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, defaultRecentLimit, f.storage.lastLimit)

	_, err = f.uc.Recent(context.Background(), 10_000)
	require.NoError(t, err)
	assert.Equal(t, maxRecentLimit, f.storage.lastLimit)
}
