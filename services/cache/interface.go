package cache

import (
	"context"

	"go.uber.org/zap"
)

// Keys of the views the client caches. Mutations invalidate by prefix.
const (
	KeyMyReservations = "my_reservations"
	KeyStatistics     = "statistics"
	KeyResources      = "resources"
	KeyResourceTypes  = "resource_types"
	KeyNotifications  = "notifications"
)

// QueryCache stores decoded API answers for read-mostly views.
type QueryCache interface {
	// Get decodes the cached value of key into out. found is false on a miss.
	Get(ctx context.Context, key string, out any) (found bool, err error)
	Set(ctx context.Context, key string, value any) error
	// Invalidate drops every key starting with one of prefixes.
	Invalidate(ctx context.Context, prefixes ...string) error
}

// Noop caches nothing.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, any) error { return nil }
func (Noop) Invalidate(context.Context, ...string) error { return nil }

// Remember serves key from c, or runs fetch to fill out and stores the result.
// Cache failures are logged and treated as misses.
func Remember(ctx context.Context, c QueryCache, logger *zap.Logger, key string, out any, fetch func() error) error {
	found, err := c.Get(ctx, key, out)
	if err != nil {
		logger.Warn("Cache read failed, fetching", zap.String("key", key), zap.Error(err))
	}
	if found {
		return nil
	}
	if err := fetch(); err != nil {
		return err
	}
	if err := c.Set(ctx, key, out); err != nil {
		logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}
