//go:build integration

package testutil

import (
	"context"
	"testing"

	"github.com/ethpandaops/persona/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisConnection holds connection details for test containers.
type RedisConnection struct {
	Client *goredis.Client
	Config *redis.Config
}

// NewRedisContainer starts a Redis container and returns a connected client
// and a persona Redis config pointing at it.
// The container is automatically terminated when the test completes.
func NewRedisContainer(t *testing.T) *RedisConnection {
	t.Helper()

	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start Redis container: %v", err)
	}

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
	})

	connURL, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	cfg := &redis.Config{URL: connURL, Prefix: "it"}

	client, err := redis.New(cfg)
	if err != nil {
		t.Fatalf("failed to create Redis client: %v", err)
	}

	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("failed to close Redis client: %v", err)
		}
	})

	return &RedisConnection{
		Client: client,
		Config: cfg,
	}
}
