package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_Defaults(t *testing.T) {
	s := NewServer(8081, http.NotFoundHandler(), Options{}, zerolog.Nop())

	assert.Equal(t, ":8081", s.Addr())
	assert.Equal(t, 10*time.Second, s.httpServer.ReadTimeout)
	assert.Equal(t, 10*time.Second, s.httpServer.WriteTimeout)
	assert.Equal(t, 120*time.Second, s.httpServer.IdleTimeout)
}

func TestNewServer_Options(t *testing.T) {
	s := NewServer(8082, http.NotFoundHandler(), Options{ReadTimeout: time.Second, WriteTimeout: 2 * time.Second}, zerolog.Nop())

	assert.Equal(t, time.Second, s.httpServer.ReadTimeout)
	assert.Equal(t, 2*time.Second, s.httpServer.WriteTimeout)
}

func TestServer_StartAndShutdown(t *testing.T) {
	s := NewServer(0, http.NotFoundHandler(), Options{}, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	// let ListenAndServe bind before shutting down
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
