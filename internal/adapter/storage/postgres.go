package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"donationflow/internal/domain/model"
	"donationflow/internal/domain/port"
)

const uniqueViolation = "23505"

type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type PostgresAdapter struct {
	db *sql.DB
}

func NewPostgresAdapter(connStr string, opts PoolOptions) (*PostgresAdapter, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresAdapter{db: db}, nil
}

func (a *PostgresAdapter) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS donations (
		id UUID PRIMARY KEY,
		chain VARCHAR(16) NOT NULL,
		network_id BIGINT NOT NULL DEFAULT 0,
		usd_amount DOUBLE PRECISION NOT NULL,
		token_amount DOUBLE PRECISION NOT NULL,
		signature VARCHAR(128) NOT NULL,
		sender VARCHAR(64) NOT NULL DEFAULT '',
		success BOOLEAN NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (chain, signature)
	);
	CREATE INDEX IF NOT EXISTS idx_donations_created_at ON donations(created_at DESC);
	`
	if _, err := a.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

func (a *PostgresAdapter) SaveDonation(ctx context.Context, d *model.Donation) error {
	query := `
	INSERT INTO donations (id, chain, network_id, usd_amount, token_amount, signature, sender, success, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := a.db.ExecContext(ctx, query,
		d.ID, d.Chain, d.NetworkID, d.USDAmount, d.TokenAmount,
		d.Signature, d.Sender, d.Success, d.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", port.ErrDuplicate, d.Signature)
		}
		return fmt.Errorf("failed to insert donation: %w", err)
	}
	return nil
}

func (a *PostgresAdapter) RecentDonations(ctx context.Context, limit int) ([]model.Donation, error) {
	query := `
	SELECT id, chain, network_id, usd_amount, token_amount, signature, sender, success, created_at
	FROM donations
	ORDER BY created_at DESC
	LIMIT $1`

	rows, err := a.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query donations: %w", err)
	}
	defer rows.Close()

	var out []model.Donation
	for rows.Next() {
		var d model.Donation
		if err := rows.Scan(
			&d.ID, &d.Chain, &d.NetworkID, &d.USDAmount, &d.TokenAmount,
			&d.Signature, &d.Sender, &d.Success, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate donations: %w", err)
	}
	return out, nil
}

func (a *PostgresAdapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *PostgresAdapter) Close() error {
	return a.db.Close()
}
