package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPostgresAdapter_Unreachable(t *testing.T) {
	_, err := NewPostgresAdapter("host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1", PoolOptions{MaxOpenConns: 1})
	assert.ErrorContains(t, err, "failed to ping database")
}
