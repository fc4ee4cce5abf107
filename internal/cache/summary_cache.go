package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// SummaryCache caches the per-day summary in Redis.
type SummaryCache struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewSummaryCache returns a SummaryCache storing under the default key.
func NewSummaryCache(rdb *redis.Client, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = constants.DefaultSummaryCacheTTL
	}
	return &SummaryCache{rdb: rdb, key: constants.SummaryCacheKey, ttl: ttl}
}

// NewClient connects to Redis and pings it.
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, fmt.Errorf("redis options: %w", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// GetSummary returns the cached summary; ok is false on a miss.
func (c *SummaryCache) GetSummary(ctx context.Context) ([]models.DaySummary, bool, error) {
	b, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var summary []models.DaySummary
	if err := json.Unmarshal(b, &summary); err != nil {
		return nil, false, err
	}
	if summary == nil {
		summary = []models.DaySummary{}
	}
	return summary, true, nil
}

// SetSummary stores the summary with the configured TTL.
func (c *SummaryCache) SetSummary(ctx context.Context, summary []models.DaySummary) error {
	b, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key, b, c.ttl).Err()
}

// Invalidate drops the cached summary (called on every write).
func (c *SummaryCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, c.key).Err()
}
