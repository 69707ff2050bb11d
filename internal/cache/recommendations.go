package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/types"
	"github.com/google/uuid"
)

// RecommendationCache is a read-through cache in front of the recommendation
// store. A miss or a redis failure just falls back to the database, so the
// cache is always optional.
type RecommendationCache interface {
	Get(ctx context.Context, userID uuid.UUID) ([]*types.Recommendation, bool)
	Set(ctx context.Context, userID uuid.UUID, recs []*types.Recommendation)
	Invalidate(ctx context.Context, userID uuid.UUID)
	Close() error
}

type recommendationCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewRecommendationCache(log *logger.Logger) (RecommendationCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &recommendationCache{
		log: log.With("service", "RecommendationCache"),
		rdb: rdb,
		ttl: 30 * time.Minute,
	}, nil
}

func cacheKey(userID uuid.UUID) string {
	return "recommendations:" + userID.String()
}

func (c *recommendationCache) Get(ctx context.Context, userID uuid.UUID) ([]*types.Recommendation, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Cache read failed, falling back to store", "user_id", userID, "error", err)
		}
		return nil, false
	}
	var recs []*types.Recommendation
	if err := json.Unmarshal(raw, &recs); err != nil {
		c.log.Warn("Cache entry corrupt, dropping", "user_id", userID, "error", err)
		c.Invalidate(ctx, userID)
		return nil, false
	}
	return recs, true
}

func (c *recommendationCache) Set(ctx context.Context, userID uuid.UUID, recs []*types.Recommendation) {
	raw, err := json.Marshal(recs)
	if err != nil {
		c.log.Warn("Cache marshal failed", "user_id", userID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(userID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Cache write failed", "user_id", userID, "error", err)
	}
}

func (c *recommendationCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := c.rdb.Del(ctx, cacheKey(userID)).Err(); err != nil {
		c.log.Warn("Cache invalidation failed", "user_id", userID, "error", err)
	}
}

func (c *recommendationCache) Close() error {
	return c.rdb.Close()
}
