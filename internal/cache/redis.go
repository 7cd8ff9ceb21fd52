// Package cache provides an optional Redis mirror of the availability
// cursor. When Redis is reachable, processed game ids are checked there
// before the database; when it is not, the pipeline runs unchanged against
// the availability table alone.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/renaqd/team1-ADS507/internal/metrics"
)

// Config holds Redis connection configuration
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisCache mirrors processed game ids in Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

const processedKeyPrefix = "nba:hustle:processed:"

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info().
		Str("addr", fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)).
		Msg("Redis cache connected")

	return &RedisCache{
		client: client,
		// Game ids stop mattering once they age out of every date-range query
		ttl: 30 * 24 * time.Hour,
	}, nil
}

// MarkProcessed records a processed game id in the mirror. Failures are
// logged, not returned: the database cursor remains the source of truth.
func (c *RedisCache) MarkProcessed(ctx context.Context, gameID string) {
	key := processedKeyPrefix + gameID
	if err := c.client.Set(ctx, key, "1", c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("game_id", gameID).Msg("Failed to mirror processed game to cache")
	}
}

// IsProcessed reports whether the game id is in the mirror. A cache error
// reads as a miss.
func (c *RedisCache) IsProcessed(ctx context.Context, gameID string) bool {
	key := processedKeyPrefix + gameID
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		log.Warn().Err(err).Str("game_id", gameID).Msg("Cache lookup failed, treating as miss")
		metrics.RecordCacheMiss()
		return false
	}

	if n > 0 {
		metrics.RecordCacheHit()
		return true
	}
	metrics.RecordCacheMiss()
	return false
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
