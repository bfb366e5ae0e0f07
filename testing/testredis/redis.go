// Package testredis starts a throwaway Redis for token store tests.
package testredis

import (
	"context"
	"sync"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	sharedContainer *RedisContainer
	sharedOnce      sync.Once
)

type RedisContainer struct {
	Container testcontainers.Container
	Addr      string
}

// SetupSharedRedis starts one container per test binary.
// Tests using it must not run in parallel.
func SetupSharedRedis(t *testing.T) *RedisContainer {
	t.Helper()

	sharedOnce.Do(func() {
		ctx := context.Background()

		redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForLog("Ready to accept connections"),
			},
			Started: true,
		})
		require.NoError(t, err)

		host, err := redisContainer.Host(ctx)
		require.NoError(t, err)

		port, err := redisContainer.MappedPort(ctx, "6379")
		require.NoError(t, err)

		sharedContainer = &RedisContainer{
			Container: redisContainer,
			Addr:      host + ":" + port.Port(),
		}
	})

	require.NotNil(t, sharedContainer, "redis container failed to start earlier")
	return sharedContainer
}

func (rc *RedisContainer) Cleanup(t *testing.T) {
	t.Helper()

	if rc.Container != nil {
		if err := rc.Container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
}

// Client returns a client on a freshly flushed database.
func (rc *RedisContainer) Client(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: rc.Addr})
	require.NoError(t, client.FlushDB(context.Background()).Err())
	t.Cleanup(func() { client.Close() })

	return client
}
