package port

import (
	"context"
	"time"
)

// CachePort holds short-lived keys shared between service instances.
type CachePort interface {
	// ClaimSignature marks a transaction signature as recorded. It returns
	// false if the signature was already claimed within ttl.
	ClaimSignature(ctx context.Context, chain, signature string, ttl time.Duration) (bool, error)
	ReleaseSignature(ctx context.Context, chain, signature string) error
	Ping(ctx context.Context) error
	Close() error
}
