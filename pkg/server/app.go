package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockDash/internal/usecase"
	"StockDash/pkg/cache"
	"StockDash/pkg/config"
	xhttp "StockDash/pkg/http"
	pkgkafka "StockDash/pkg/kafka"
	applogger "StockDash/pkg/logger"
	"StockDash/pkg/scheduler"
)

// Pruner forgets per-key state older than a cutoff.
type Pruner interface {
	Prune(before time.Time) int
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	root       *applogger.Logger
	log        *applogger.Logger
	httpServer *xhttp.Server
	sched      *scheduler.Scheduler
	sessions   *usecase.Registry
	limiter    Pruner
	producer   *pkgkafka.Producer
	cache      cache.Service
}

// New creates a new App instance with all dependencies. producer and c may
// be nil.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	sched *scheduler.Scheduler,
	sessions *usecase.Registry,
	limiter Pruner,
	producer *pkgkafka.Producer,
	c cache.Service,
) *App {
	return &App{
		cfg:        cfg,
		root:       l,
		log:        l.With("app"),
		httpServer: httpServer,
		sched:      sched,
		sessions:   sessions,
		limiter:    limiter,
		producer:   producer,
		cache:      c,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done, then shuts
// everything down.
func (a *App) RunContext(ctx context.Context) error {
	sweep := usecase.SweepJob{Registry: a.sessions}
	if a.limiter != nil {
		ttl := a.cfg.Session.IdleTTL
		sweep.OnSweep = func(now time.Time) { a.limiter.Prune(now.Add(-ttl)) }
	}
	if err := a.sched.AddJob(a.cfg.Session.SweepCron, sweep); err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}
	a.sched.Start()

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		a.sched.Stop()
		return err
	}
	a.log.Info("stockdash started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Bool("kafka", a.producer != nil),
		applogger.Bool("redis", a.cfg.Cache.Redis.Enabled),
	)

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	var errs []error

	// stop accepting requests before the sessions go away
	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}

	a.sched.Stop()
	a.sessions.CloseAll()

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	// the collector publishes through the producer, so it goes first
	a.root.RemoveCollector()
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn("kafka producer close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}
