package xredis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wealthfund/backend/pkg/xcontext"
)

type Client interface {
	TTL(ctx context.Context, key string) (time.Duration, error)
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type client struct {
	redisClient *redis.Client
}

func NewClient(ctx context.Context) (*client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:            xcontext.Configs(ctx).Redis.Addr,
		Password:        xcontext.Configs(ctx).Redis.Password,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolFIFO:        false,
		PoolSize:        5,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

func (c *client) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.redisClient.TTL(ctx, key).Result()
}

// SetNX sets the key only if it does not exist yet. It reports whether the key
// was set.
func (c *client) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return c.redisClient.SetNX(ctx, key, value, ttl).Result()
}

// Incr increments the counter at key and returns its new value. The key
// expires ttl after the last increment.
func (c *client) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := c.redisClient.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return incr.Val(), nil
}
