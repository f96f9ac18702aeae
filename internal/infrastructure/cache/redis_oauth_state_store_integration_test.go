//go:build integration

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisOAuthStateStore(t *testing.T) {
	client := newRedisClient(t)
	store := NewRedisOAuthStateStore(client, "test:state:")
	ctx := context.Background()

	t.Run("single use", func(t *testing.T) {
		want := sampleState()
		require.NoError(t, store.Save(ctx, "a", want, time.Minute))

		ttl, err := client.TTL(ctx, "test:state:a").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 50*time.Second)

		got, err := store.Consume(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, want.TenantID, got.TenantID)
		assert.Equal(t, want.CodeVerifier, got.CodeVerifier)

		_, err = store.Consume(ctx, "a")
		assert.ErrorIs(t, err, integration.ErrOAuthStateNotFound)
	})

	t.Run("expires with the key", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "short", sampleState(), 50*time.Millisecond))
		time.Sleep(200 * time.Millisecond)

		_, err := store.Consume(ctx, "short")
		assert.ErrorIs(t, err, integration.ErrOAuthStateNotFound)
	})

	t.Run("one winner under concurrency", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "race", sampleState(), time.Minute))

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := store.Consume(ctx, "race"); err == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})
}
