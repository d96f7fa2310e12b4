package repository

import (
	"context"
	"time"

	"StockDash/internal/domain/models"
	domrepo "StockDash/internal/domain/repository"
	"StockDash/pkg/cache"
	applogger "StockDash/pkg/logger"
)

// CachedCatalog keeps the raw ticker listing in a cache for ttl. Every session
// still gets its own Catalog snapshot built from the listing.
type CachedCatalog struct {
	src   domrepo.CatalogSource
	cache cache.Service
	ttl   time.Duration
	key   string
	l     *applogger.Logger
}

func NewCachedCatalog(src domrepo.CatalogSource, c cache.Service, ttl time.Duration, limit int, l *applogger.Logger) *CachedCatalog {
	return &CachedCatalog{
		src:   src,
		cache: c,
		ttl:   ttl,
		key:   cache.GenerateKeyWithParams("catalog", "tickers", limit),
		l:     l.With("catalog_cache"),
	}
}

func (c *CachedCatalog) Tickers(ctx context.Context) ([]models.CatalogEntry, error) {
	entries, hit, err := cache.GetOrLoad(ctx, c.cache, c.key, c.ttl, c.src.Tickers)
	if err != nil {
		return nil, err
	}
	c.l.Debug("catalog listing",
		applogger.String("key", c.key),
		applogger.Bool("cache_hit", hit),
		applogger.Int("count", len(entries)),
	)
	return entries, nil
}

// Invalidate drops the cached listing so the next Tickers call goes upstream.
func (c *CachedCatalog) Invalidate(ctx context.Context) error {
	return c.cache.Delete(ctx, c.key)
}
