package notify

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internfinder-engine/internal/domain"
)

func TestEmailNotify_CancelledContextAbortsDial(t *testing.T) {
	// A listener that accepts but never speaks stands in for a dead server.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	e := NewEmail(EmailConfig{
		Host:     "127.0.0.1",
		Port:     port,
		From:     "engine@example.com",
		To:       "me@example.com",
		Password: "secret",
	}, nil, "", 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err = e.Notify(ctx, []domain.Listing{{Company: "Acme", Role: "Intern"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestEmailNotify_EmptyFreshIsNoop(t *testing.T) {
	e := NewEmail(EmailConfig{}, nil, "", 0)
	assert.NoError(t, e.Notify(context.Background(), nil))
}
