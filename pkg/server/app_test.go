package server

import (
	"context"
	"testing"
	"time"

	"StockDash/internal/domain/models"
	"StockDash/internal/usecase"
	"StockDash/pkg/cache"
	"StockDash/pkg/config"
	xhttp "StockDash/pkg/http"
	applogger "StockDash/pkg/logger"
	"StockDash/pkg/metrics"
	"StockDash/pkg/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyCatalog struct{}

func (emptyCatalog) Tickers(context.Context) ([]models.CatalogEntry, error) { return nil, nil }

type noHistory struct{}

func (noHistory) EOD(context.Context, string, models.DateRange) ([]models.PricePoint, error) {
	return nil, nil
}

type countingPruner struct{ calls int }

func (p *countingPruner) Prune(time.Time) int {
	p.calls++
	return 0
}

func newTestApp(t *testing.T, cron string) (*App, *usecase.Registry, *scheduler.Scheduler) {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Session.SweepCron = cron

	l := applogger.Nop()
	reg := usecase.NewRegistry(emptyCatalog{}, usecase.ControllerDeps{
		Orchestrator: usecase.NewOrchestrator(noHistory{}, metrics.Nop{}, l),
		Projector:    usecase.NewProjector(cfg.Chart.DateLayout, cfg.Chart.Palette),
		Metrics:      metrics.Nop{},
		Logger:       l,
	}, cfg.Session.IdleTTL)
	srv := xhttp.NewServer(nil, l, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0), xhttp.WithMetricsPath(""))
	sched := scheduler.New(l)

	return New(cfg, l, srv, sched, reg, &countingPruner{}, nil, cache.NewMemoryCache()), reg, sched
}

func TestAppRunAndShutdown(t *testing.T) {
	app, reg, sched := newTestApp(t, "@every 1h")
	sess := reg.Create(context.Background())

	// an already cancelled context starts everything and shuts down at once
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not shut down")
	}

	assert.Equal(t, 1, sched.Entries())
	assert.Zero(t, reg.Len())
	_, err := sess.Submit()
	assert.Error(t, err, "sessions are closed on shutdown")
}

func TestAppRejectsBadSweepSchedule(t *testing.T) {
	app, _, _ := newTestApp(t, "every now and then")
	err := app.RunContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule session sweep")
}
