package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"StockDash/internal/domain/models"
	applogger "StockDash/pkg/logger"
	"StockDash/pkg/metrics"
)

var errUpstream = errors.New("upstream: 500 internal error")

type fakeHistory struct {
	mu       sync.Mutex
	calls    int
	requests []string
	points   map[string][]models.PricePoint
	fail     map[string]error
	gate     map[string]chan struct{}
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{
		points: map[string][]models.PricePoint{},
		fail:   map[string]error{},
		gate:   map[string]chan struct{}{},
	}
}

func (f *fakeHistory) EOD(ctx context.Context, symbol string, _ models.DateRange) ([]models.PricePoint, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, symbol)
	pts, err, gate := f.points[symbol], f.fail[symbol], f.gate[symbol]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return pts, nil
}

func (f *fakeHistory) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type panicHistory struct{}

func (panicHistory) EOD(context.Context, string, models.DateRange) ([]models.PricePoint, error) {
	panic("decoder blew up")
}

type fakeCatalogSource struct {
	mu      sync.Mutex
	entries []models.CatalogEntry
	err     error
	calls   int
}

func (f *fakeCatalogSource) Tickers(context.Context) ([]models.CatalogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.BatchEvent
	err    error
}

func (p *recordingPublisher) PublishBatch(_ context.Context, ev models.BatchEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Events() []models.BatchEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.BatchEvent(nil), p.events...)
}

// points returns n consecutive daily points starting 2024-01-01.
func points(n int, base float64) []models.PricePoint {
	out := make([]models.PricePoint, n)
	for i := range out {
		v := base + float64(i)
		out[i] = models.PricePoint{
			Date:  fmt.Sprintf("2024-01-%02dT00:00:00+0000", i+1),
			Open:  v,
			High:  v + 2,
			Low:   v - 1,
			Close: v + 1,
		}
	}
	return out
}

func entries(symbols ...string) []models.CatalogEntry {
	out := make([]models.CatalogEntry, len(symbols))
	for i, s := range symbols {
		out[i] = models.CatalogEntry{
			Symbol:        s,
			Name:          s + " Inc",
			StockExchange: models.StockExchange{Name: "NASDAQ Stock Exchange", CountryCode: "US"},
		}
	}
	return out
}

func newOrchestrator(h *fakeHistory) *Orchestrator {
	return NewOrchestrator(h, metrics.Nop{}, applogger.Nop())
}

func newDeps(h *fakeHistory, pub *recordingPublisher) ControllerDeps {
	deps := ControllerDeps{
		Orchestrator: newOrchestrator(h),
		Projector:    NewProjector("2006-01-02", []string{"#111111", "#222222", "#333333"}),
		Metrics:      metrics.Nop{},
		Logger:       applogger.Nop(),
	}
	if pub != nil {
		deps.Publisher = pub
	}
	return deps
}
