package testutil

import (
	"context"
	"time"

	"github.com/wealthfund/backend/pkg/xredis"
)

var _ xredis.Client = (*MockRedisClient)(nil)

type MockRedisClient struct {
	TTLFunc   func(ctx context.Context, key string) (time.Duration, error)
	SetNXFunc func(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	IncrFunc  func(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

func (m *MockRedisClient) TTL(ctx context.Context, key string) (time.Duration, error) {
	if m.TTLFunc != nil {
		return m.TTLFunc(ctx, key)
	}

	return 0, nil
}

// SetNX succeeds by default, so rate limits never trigger unless a test asks
// for it.
func (m *MockRedisClient) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if m.SetNXFunc != nil {
		return m.SetNXFunc(ctx, key, value, ttl)
	}

	return true, nil
}

func (m *MockRedisClient) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if m.IncrFunc != nil {
		return m.IncrFunc(ctx, key, ttl)
	}

	return 1, nil
}
