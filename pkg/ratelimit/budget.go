package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Redis key prefix for the daily budget counters. One key per UTC day,
// shared by every process using the same token.
const RedisKeyBudgetPrefix = "cdo:budget:"

// Budget limits.
const (
	// DefaultDailyLimit is the documented per-token daily request cap.
	DefaultDailyLimit = 10000

	// BudgetThresholdWarning triggers warning logs when the remaining
	// budget falls below this value.
	BudgetThresholdWarning = 500
)

// Prometheus metrics for budget tracking.
var (
	cdoBudgetRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cdo_budget_remaining",
		Help: "Requests remaining in the current daily budget window",
	})

	cdoBudgetBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cdo_budget_blocks_total",
		Help: "Total number of requests blocked due to exhausted daily budget",
	})
)

// Usage is a snapshot of the daily budget state.
type Usage struct {
	// Used is the number of requests issued so far today.
	Used int

	// Limit is the daily request cap.
	Limit int
}

// Remaining returns the requests left today. Never negative.
func (u Usage) Remaining() int {
	r := u.Limit - u.Used
	if r < 0 {
		return 0
	}
	return r
}

// Exhausted reports whether the budget is spent.
func (u Usage) Exhausted() bool {
	return u.Used > u.Limit
}

// NeedsWarning reports whether the remaining budget is low enough to
// warrant operator attention.
func (u Usage) NeedsWarning() bool {
	return !u.Exhausted() && u.Remaining() < BudgetThresholdWarning
}

// Budget tracks the shared per-token daily request budget in Redis.
// CDO reports no budget headers, so the count is maintained locally:
// every Allow call consumes one unit of the current UTC day's counter.
type Budget struct {
	redis  *redis.Client
	limit  int
	logger zerolog.Logger
}

// NewBudget creates a daily budget tracker. A non-positive limit falls
// back to DefaultDailyLimit.
func NewBudget(redisClient *redis.Client, dailyLimit int, logger zerolog.Logger) *Budget {
	if dailyLimit <= 0 {
		dailyLimit = DefaultDailyLimit
	}
	return &Budget{
		redis:  redisClient,
		limit:  dailyLimit,
		logger: logger,
	}
}

// key returns the counter key for the current UTC day.
func (b *Budget) key() string {
	return RedisKeyBudgetPrefix + time.Now().UTC().Format("2006-01-02")
}

// Allow consumes one unit of today's budget and reports whether the
// request may proceed. Returns false once the daily cap is spent.
func (b *Budget) Allow(ctx context.Context) (bool, error) {
	key := b.key()

	used, err := b.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("increment budget counter: %w", err)
	}
	if used == 1 {
		// Keep the counter past midnight for inspection, then let it go.
		if err := b.redis.Expire(ctx, key, 48*time.Hour).Err(); err != nil {
			b.logger.Warn().Err(err).Msg("Failed to set budget key expiry")
		}
	}

	usage := Usage{Used: int(used), Limit: b.limit}
	cdoBudgetRemaining.Set(float64(usage.Remaining()))

	if usage.Exhausted() {
		cdoBudgetBlocksTotal.Inc()
		b.logger.Error().
			Int("used", usage.Used).
			Int("limit", usage.Limit).
			Msg("Daily budget exhausted - blocking request")
		return false, nil
	}

	if usage.NeedsWarning() {
		b.logger.Warn().
			Int("remaining", usage.Remaining()).
			Int("limit", usage.Limit).
			Msg("Daily budget running low")
	}

	return true, nil
}

// GetUsage retrieves today's budget usage without consuming it.
func (b *Budget) GetUsage(ctx context.Context) (Usage, error) {
	used, err := b.redis.Get(ctx, b.key()).Int()
	if err != nil && err != redis.Nil {
		return Usage{}, fmt.Errorf("get budget counter: %w", err)
	}
	return Usage{Used: used, Limit: b.limit}, nil
}
