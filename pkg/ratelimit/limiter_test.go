package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNewLimiter_Interval(t *testing.T) {
	tests := []struct {
		name string
		rps  int
		want time.Duration
	}{
		{name: "documented ceiling", rps: 5, want: 200 * time.Millisecond},
		{name: "one per second", rps: 1, want: time.Second},
		{name: "zero falls back to default", rps: 0, want: time.Second / DefaultRequestsPerSecond},
		{name: "negative falls back to default", rps: -3, want: time.Second / DefaultRequestsPerSecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewLimiter(tt.rps).Interval(); got != tt.want {
				t.Errorf("Interval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLimiter_FirstRequestImmediate(t *testing.T) {
	limiter := NewLimiter(1)

	start := time.Now()
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("first Wait() took %v, want immediate", elapsed)
	}
}

func TestLimiter_SpacesRequests(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	limiter := NewLimiter(100) // 10ms interval
	ctx := context.Background()

	start := time.Now()
	const n = 5
	for i := 0; i < n; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("Wait() #%d error = %v", i+1, err)
		}
	}
	elapsed := time.Since(start)

	if min := time.Duration(n-1) * limiter.Interval(); elapsed < min {
		t.Errorf("%d waits finished in %v, want at least %v", n, elapsed, min)
	}
}

func TestLimiter_SharedAcrossGoroutines(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	// 4 goroutines sharing one limiter must not finish 8 total slots
	// faster than 7 intervals.
	limiter := NewLimiter(200) // 5ms interval
	ctx := context.Background()

	var wg sync.WaitGroup
	start := time.Now()
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 2; i++ {
				if err := limiter.Wait(ctx); err != nil {
					t.Errorf("Wait() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	if min := 7 * limiter.Interval(); elapsed < min {
		t.Errorf("8 shared slots granted in %v, want at least %v", elapsed, min)
	}
}

func TestLimiter_ContextCancellation(t *testing.T) {
	limiter := NewLimiter(1)
	ctx, cancel := context.WithCancel(context.Background())

	// Spend the immediate slot, then cancel while the next one queues.
	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}
	cancel()

	if err := limiter.Wait(ctx); err != context.Canceled {
		t.Errorf("Wait() after cancel = %v, want context.Canceled", err)
	}
}
