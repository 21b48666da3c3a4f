package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"donationflow/internal/domain/model"
	"donationflow/internal/domain/port"
)

var (
	ErrInvalidDonation   = errors.New("invalid donation")
	ErrDuplicateDonation = errors.New("donation already recorded")
)

const (
	releaseTimeout     = 5 * time.Second
	defaultRecentLimit = 20
	maxRecentLimit     = 100
	maxSignatureLen    = 128
)

// DonationRecorder counts recorded receipts.
type DonationRecorder interface {
	RecordDonation(chain string, success bool)
}

type DonationUseCase struct {
	chains   []model.Chain
	storage  port.StoragePort
	cache    port.CachePort
	claimTTL time.Duration
	metrics  DonationRecorder
	log      zerolog.Logger
	now      func() time.Time
}

func NewDonationUseCase(chains []model.Chain, storage port.StoragePort, cache port.CachePort, claimTTL time.Duration, metrics DonationRecorder, log zerolog.Logger) *DonationUseCase {
	return &DonationUseCase{
		chains:   chains,
		storage:  storage,
		cache:    cache,
		claimTTL: claimTTL,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

type RecordRequest struct {
	Chain       string  `json:"chain"`
	NetworkID   int64   `json:"network_id"`
	USDAmount   float64 `json:"usd_amount"`
	TokenAmount float64 `json:"token_amount"`
	Signature   string  `json:"signature"`
	Sender      string  `json:"sender"`
	Success     bool    `json:"success"`
}

func (r RecordRequest) validate(chains []model.Chain) (model.Chain, error) {
	c, ok := model.ChainByName(chains, r.Chain)
	if !ok {
		return model.Chain{}, fmt.Errorf("%w: %q", ErrUnknownChain, r.Chain)
	}
	if !(r.USDAmount > 0) || math.IsInf(r.USDAmount, 0) {
		return c, fmt.Errorf("%w: usd_amount must be positive", ErrInvalidDonation)
	}
	if r.TokenAmount < 0 || math.IsNaN(r.TokenAmount) || math.IsInf(r.TokenAmount, 0) {
		return c, fmt.Errorf("%w: token_amount must not be negative", ErrInvalidDonation)
	}
	sig := strings.TrimSpace(r.Signature)
	if sig == "" {
		return c, fmt.Errorf("%w: signature is required", ErrInvalidDonation)
	}
	if len(sig) > maxSignatureLen {
		return c, fmt.Errorf("%w: signature too long", ErrInvalidDonation)
	}
	if r.Sender != "" {
		if err := model.ValidateAddress(c.Name, r.Sender); err != nil {
			return c, fmt.Errorf("%w: sender: %v", ErrInvalidDonation, err)
		}
	}
	return c, nil
}

// Record stores the receipt of a donation the wallet has already submitted.
// A signature can be recorded once per chain.
func (uc *DonationUseCase) Record(ctx context.Context, req RecordRequest) (*model.Donation, error) {
	c, err := req.validate(uc.chains)
	if err != nil {
		return nil, err
	}
	sig := strings.TrimSpace(req.Signature)

	claimed, err := uc.cache.ClaimSignature(ctx, c.Name, sig, uc.claimTTL)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateDonation, sig)
	}

	d := &model.Donation{
		ID:          uuid.New(),
		Chain:       c.Name,
		NetworkID:   req.NetworkID,
		USDAmount:   req.USDAmount,
		TokenAmount: req.TokenAmount,
		Signature:   sig,
		Sender:      model.NormalizeAddress(c.Name, req.Sender),
		Success:     req.Success,
		CreatedAt:   uc.now().UTC(),
	}

	if err := uc.storage.SaveDonation(ctx, d); err != nil {
		if errors.Is(err, port.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDonation, sig)
		}
		uc.release(ctx, c.Name, sig)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RecordDonation(d.Chain, d.Success)
	}
	uc.log.Info().
		Str("id", d.ID.String()).
		Str("chain", d.Chain).
		Float64("usd", d.USDAmount).
		Bool("success", d.Success).
		Msg("donation recorded")
	return d, nil
}

// release drops a claim after a failed insert. It runs detached from ctx so a
// cancelled request does not leave the signature claimed until the TTL.
func (uc *DonationUseCase) release(ctx context.Context, chain, sig string) {
	relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := uc.cache.ReleaseSignature(relCtx, chain, sig); err != nil {
		uc.log.Error().Err(err).Str("chain", chain).Str("signature", sig).Msg("failed to release signature claim")
	}
}

// Recent lists the newest receipts. limit is clamped to [1, 100]; zero picks
// the default.
func (uc *DonationUseCase) Recent(ctx context.Context, limit int) ([]model.Donation, error) {
	switch {
	case limit <= 0:
		limit = defaultRecentLimit
	case limit > maxRecentLimit:
		limit = maxRecentLimit
	}
	return uc.storage.RecentDonations(ctx, limit)
}
