// Package redis implements summarycache.Cache on Redis SETEX/GET.
//
// Key layout: summary:<token>. Backend errors are absorbed per the
// cache contract: reads degrade to misses and writes are dropped with
// a log line, never surfaced to callers.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lexsum/lexsum/pkg/fingerprint"
	"github.com/lexsum/lexsum/pkg/summarycache"
)

const keyPrefix = "summary:"

// Cache implements summarycache.Cache.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

var _ summarycache.Cache = (*Cache)(nil)

// New creates a cache on an existing Redis client. The caller owns the
// client lifecycle. A non-positive ttl falls back to
// summarycache.DefaultTTL.
func New(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = summarycache.DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

func (c *Cache) Get(ctx context.Context, token fingerprint.Token) (string, bool) {
	val, err := c.client.Get(ctx, keyPrefix+token.String()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("summary cache read failed, treating as miss",
				zap.String("token", token.String()),
				zap.Error(err))
		}
		return "", false
	}
	return val, true
}

func (c *Cache) Put(ctx context.Context, token fingerprint.Token, summary string) {
	if err := c.client.SetEx(ctx, keyPrefix+token.String(), summary, c.ttl).Err(); err != nil {
		c.logger.Warn("summary cache write failed, dropping entry",
			zap.String("token", token.String()),
			zap.Error(err))
	}
}
