//go:build integration

package ratelimit

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a Redis container and returns a client
func setupRedis(t *testing.T) (*redis.Client, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Failed to get Redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: endpoint,
	})

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	cleanup := func() {
		client.Close()
		redisContainer.Terminate(ctx)
	}

	return client, cleanup
}

func TestBudget_Integration_AllowAndUsage(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	budget := NewBudget(redisClient, 100, logger)
	ctx := context.Background()

	// Test 1: Fresh day allows requests
	allowed, err := budget.Allow(ctx)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !allowed {
		t.Error("Allow() = false on a fresh day, want true")
	}

	// Test 2: Usage reflects consumption
	for i := 0; i < 9; i++ {
		if _, err := budget.Allow(ctx); err != nil {
			t.Fatalf("Allow() #%d error = %v", i+2, err)
		}
	}

	usage, err := budget.GetUsage(ctx)
	if err != nil {
		t.Fatalf("GetUsage() error = %v", err)
	}
	if usage.Used != 10 {
		t.Errorf("Used = %d, want 10", usage.Used)
	}
	if usage.Remaining() != 90 {
		t.Errorf("Remaining() = %d, want 90", usage.Remaining())
	}

	// Test 3: Key has an expiry so stale days age out
	ttl, err := redisClient.TTL(ctx, budget.key()).Result()
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}
	if ttl <= 0 {
		t.Errorf("budget key TTL = %v, want a positive expiry", ttl)
	}
}

func TestBudget_Integration_BlocksWhenExhausted(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	budget := NewBudget(redisClient, 3, logger)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := budget.Allow(ctx)
		if err != nil {
			t.Fatalf("Allow() #%d error = %v", i+1, err)
		}
		if !allowed {
			t.Fatalf("Allow() #%d = false, want true within the cap", i+1)
		}
	}

	allowed, err := budget.Allow(ctx)
	if err != nil {
		t.Fatalf("Allow() over cap error = %v", err)
	}
	if allowed {
		t.Error("Allow() = true past the daily cap, want false")
	}

	// Once blocked, it stays blocked for the rest of the day.
	allowed, err = budget.Allow(ctx)
	if err != nil {
		t.Fatalf("Allow() repeat over cap error = %v", err)
	}
	if allowed {
		t.Error("Allow() = true on repeat past the cap, want false")
	}
}

func TestBudget_Integration_SharedAcrossClients(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	ctx := context.Background()

	// Two budget trackers sharing one Redis must see one counter, the
	// way two fetcher processes sharing a token would.
	a := NewBudget(redisClient, 1000, logger)
	b := NewBudget(redisClient, 1000, logger)

	var wg sync.WaitGroup
	for _, budget := range []*Budget{a, b} {
		wg.Add(1)
		go func(bg *Budget) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				if _, err := bg.Allow(ctx); err != nil {
					t.Errorf("Allow() error = %v", err)
					return
				}
			}
		}(budget)
	}
	wg.Wait()

	usage, err := a.GetUsage(ctx)
	if err != nil {
		t.Fatalf("GetUsage() error = %v", err)
	}
	if usage.Used != 50 {
		t.Errorf("Used = %d, want 50 (both clients counted)", usage.Used)
	}
}
