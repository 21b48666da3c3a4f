package port

import (
	"context"
	"errors"

	"donationflow/internal/domain/model"
)

// ErrDuplicate is returned by SaveDonation when a receipt for the same chain
// and signature already exists.
var ErrDuplicate = errors.New("donation already stored")

type StoragePort interface {
	SaveDonation(ctx context.Context, d *model.Donation) error
	RecentDonations(ctx context.Context, limit int) ([]model.Donation, error)
	Ping(ctx context.Context) error
	Close() error
}
