package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(addr, password string, db int) (*RedisAdapter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisAdapter{client: client}, nil
}

func signatureKey(chain, signature string) string {
	return fmt.Sprintf("donation:%s:%s", chain, signature)
}

func (a *RedisAdapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}

// ClaimSignature sets the signature key only if it is absent.
func (a *RedisAdapter) ClaimSignature(ctx context.Context, chain, signature string, ttl time.Duration) (bool, error) {
	ok, err := a.client.SetNX(ctx, signatureKey(chain, signature), time.Now().UTC().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim signature in redis: %w", err)
	}
	return ok, nil
}

// ReleaseSignature frees a claim so the receipt can be submitted again, used
// when persisting the receipt failed after the claim.
func (a *RedisAdapter) ReleaseSignature(ctx context.Context, chain, signature string) error {
	if err := a.client.Del(ctx, signatureKey(chain, signature)).Err(); err != nil {
		return fmt.Errorf("failed to release signature in redis: %w", err)
	}
	return nil
}

func (a *RedisAdapter) Close() error {
	return a.client.Close()
}
