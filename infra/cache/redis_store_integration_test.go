package cache

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/usdtgate/pkg/deposit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisContainer starts a real Redis with testcontainers-go.
func setupRedisContainer(tb testing.TB) string {
	tb.Helper()
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "redis:7.0.5",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		tb.Skipf("Failed to start container: %v", err)
	}
	tb.Cleanup(func() { _ = container.Terminate(context.Background()) })

	port, err := container.MappedPort(ctx, "6379")
	require.NoError(tb, err)
	host, err := container.Host(ctx)
	require.NoError(tb, err)
	return "redis://" + host + ":" + port.Port() + "/0"
}

func TestRedisSessionStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	url := setupRedisContainer(t)
	ctx := context.Background()

	store, err := NewRedisSessionStoreFromURL(ctx, url, "it:", nil)
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck

	session := sampleSession()
	require.NoError(t, store.Save(ctx, session, time.Minute))
	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Email, got.Email)

	require.NoError(t, store.Delete(ctx, session.ID))
	_, err = store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, deposit.ErrSessionNotFound)
}
