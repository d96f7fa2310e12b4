package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockDash/internal/domain/models"
	drepo "StockDash/internal/domain/repository"
	applogger "StockDash/pkg/logger"
)

// Orchestrator fetches price history for a batch of symbols.
type Orchestrator struct {
	history drepo.HistorySource
	metrics drepo.Metrics
	logger  *applogger.Logger
}

func NewOrchestrator(history drepo.HistorySource, metrics drepo.Metrics, l *applogger.Logger) *Orchestrator {
	return &Orchestrator{history: history, metrics: metrics, logger: l.With("orchestrator")}
}

// Batch is the outcome of one settled gather.
type Batch struct {
	Bundle   *models.SeriesBundle
	Failed   []string // in request order
	Duration time.Duration
}

// Symbols derives the distinct symbols to fetch, at most MaxSelection, in
// selection order. Blank symbols are skipped.
func Symbols(selection []models.Instrument) []string {
	seen := make(map[string]struct{}, len(selection))
	out := make([]string, 0, MaxSelection)
	for _, inst := range selection {
		if len(out) == MaxSelection {
			break
		}
		if inst.Symbol == "" {
			continue
		}
		if _, dup := seen[inst.Symbol]; dup {
			continue
		}
		seen[inst.Symbol] = struct{}{}
		out = append(out, inst.Symbol)
	}
	return out
}

// Prepare checks the submit preconditions and returns the symbols to fetch.
// It never touches the network.
func (o *Orchestrator) Prepare(selection []models.Instrument, r models.DateRange) ([]string, error) {
	if len(selection) == 0 || !r.Complete() {
		return nil, models.ErrValidation
	}
	return Symbols(selection), nil
}

// Run validates, then fetches every symbol concurrently and returns once all
// requests have settled. After validation it cannot fail: a symbol whose
// request fails is logged and kept with an empty series.
func (o *Orchestrator) Run(ctx context.Context, selection []models.Instrument, r models.DateRange) (*models.SeriesBundle, error) {
	symbols, err := o.Prepare(selection, r)
	if err != nil {
		return nil, err
	}
	return o.Gather(ctx, symbols, r).Bundle, nil
}

// Gather fans out one request per symbol and joins on all of them.
func (o *Orchestrator) Gather(ctx context.Context, symbols []string, r models.DateRange) *Batch {
	start := time.Now()

	type item struct {
		symbol string
		points []models.PricePoint
		err    error
	}
	ch := make(chan item, len(symbols))
	var wg sync.WaitGroup

	for _, s := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			pts, err := o.fetch(ctx, symbol, r)
			ch <- item{symbol, pts, err}
		}(s)
	}

	go func() { wg.Wait(); close(ch) }()

	// keys are laid out before any result arrives so failures keep their slot
	bundle := models.NewSeriesBundle(symbols...)
	failed := make(map[string]bool, len(symbols))
	for it := range ch {
		if it.err != nil {
			failed[it.symbol] = true
			o.logger.Error("history fetch failed",
				applogger.String("symbol", it.symbol),
				applogger.String("from", r.From),
				applogger.String("to", r.To),
				applogger.Error(it.err),
			)
			continue
		}
		bundle.Set(it.symbol, it.points)
	}

	b := &Batch{Bundle: bundle, Duration: time.Since(start)}
	for _, s := range symbols {
		if failed[s] {
			b.Failed = append(b.Failed, s)
		}
	}
	o.metrics.RecordBatch(len(symbols), len(b.Failed), b.Duration.Seconds())
	return b
}

func (o *Orchestrator) fetch(ctx context.Context, symbol string, r models.DateRange) (pts []models.PricePoint, err error) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			pts, err = nil, fmt.Errorf("history source panic: %v", p)
		}
		o.metrics.RecordFetch(symbol, err == nil, time.Since(start).Seconds())
	}()
	return o.history.EOD(ctx, symbol, r)
}
