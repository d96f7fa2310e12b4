package repository

import (
	"context"

	"StockDash/internal/domain/models"
)

// CatalogSource lists the tradable instruments.
type CatalogSource interface {
	Tickers(ctx context.Context) ([]models.CatalogEntry, error)
}

// HistorySource returns end-of-day points for one symbol over [from, to],
// ascending by date as the provider returns them.
type HistorySource interface {
	EOD(ctx context.Context, symbol string, r models.DateRange) ([]models.PricePoint, error)
}

// BatchPublisher reports settled fetch batches.
type BatchPublisher interface {
	PublishBatch(ctx context.Context, ev models.BatchEvent) error
	Close() error
}

type Metrics interface {
	RecordFetch(symbol string, ok bool, seconds float64)
	RecordBatch(symbols, failed int, seconds float64)
	RecordStaleBatch()
	RecordValidationError()
	SetActiveSessions(n int)
}
