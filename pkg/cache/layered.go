package cache

import (
	"context"
	"errors"
	"time"
)

// LayeredCache is a two-level cache: a fast L1 (usually memory) in front of a
// shared L2 (usually Redis).
type LayeredCache struct {
	l1, l2      Service
	backfillTTL time.Duration
}

// NewLayeredCache creates a layered cache.
func NewLayeredCache(l1, l2 Service, opts ...LayeredOption) *LayeredCache {
	cfg := &LayeredConfig{
		BackfillTTL: time.Minute,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &LayeredCache{l1: l1, l2: l2, backfillTTL: cfg.BackfillTTL}
}

// Set writes through: L2 first, then L1.
func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := lc.l2.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	_ = lc.l1.Set(ctx, key, value, expiration)
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.l1.Get(ctx, key, dest); err == nil {
		return nil
	}

	if err := lc.l2.Get(ctx, key, dest); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return ErrCacheMiss
		}
		return err
	}

	_ = lc.l1.Set(ctx, key, dest, lc.backfillTTL)
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.l1.Delete(ctx, keys...)
	return lc.l2.Delete(ctx, keys...)
}

// Close closes both cache layers.
func (lc *LayeredCache) Close() error {
	return errors.Join(lc.l1.Close(), lc.l2.Close())
}
