package di

import (
	"context"
	"fmt"
	"time"

	domrepo "StockDash/internal/domain/repository"
	"StockDash/internal/handler/api"
	internalrepo "StockDash/internal/repository"
	"StockDash/internal/service/marketstack"
	"StockDash/internal/service/ratelimit"
	"StockDash/internal/service/render"
	"StockDash/internal/usecase"
	"StockDash/pkg/cache"
	"StockDash/pkg/config"
	xhttp "StockDash/pkg/http"
	pkgkafka "StockDash/pkg/kafka"
	applogger "StockDash/pkg/logger"
	"StockDash/pkg/metrics"
	"StockDash/pkg/scheduler"
	"StockDash/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
)

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is off.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogger builds the root logger. Every component logger derives from
// it, so the error collector is attached here, before anything else exists.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	if cfg.Logging.Collector.Enabled && producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Logging.Collector.Interval,
			CountThreshold: cfg.Logging.Collector.Threshold,
			Topic:          cfg.Logging.Collector.Topic,
			Publisher:      producer,
		})
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideCache creates the catalog cache: memory only, or memory in front of
// Redis when Redis is enabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	mem := cache.NewMemoryCache(
		cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
		cache.WithMemoryCleanup(time.Minute),
	)
	if !cfg.Cache.Redis.Enabled {
		return mem, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rc, err := cache.NewRedisCache(ctx,
		cache.WithRedisAddr(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		_ = mem.Close()
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(mem, rc, cache.WithBackfillTTL(cfg.Cache.CatalogTTL)), nil
}

// ProvideMarketstackClient creates the provider client.
func ProvideMarketstackClient(cfg *config.Config, l *applogger.Logger) *marketstack.Client {
	return marketstack.New(marketstack.Config{
		APIKey:       cfg.Marketstack.APIKey,
		BaseURL:      cfg.Marketstack.BaseURL,
		TickersPath:  cfg.Marketstack.TickersPath,
		EODPath:      cfg.Marketstack.EODPath,
		CatalogLimit: cfg.Marketstack.CatalogLimit,
		EODLimit:     cfg.Marketstack.EODLimit,
		Timeout:      cfg.Marketstack.Timeout,
	}, l)
}

// ProvideCatalogSource puts the catalog cache in front of the provider.
func ProvideCatalogSource(ms *marketstack.Client, c cache.Service, cfg *config.Config, l *applogger.Logger) domrepo.CatalogSource {
	return internalrepo.NewCachedCatalog(ms, c, cfg.Cache.CatalogTTL, cfg.Marketstack.CatalogLimit, l)
}

// ProvideBatchPublisher publishes to Kafka when a producer exists.
func ProvideBatchPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.BatchPublisher {
	if producer == nil {
		return internalrepo.NoopBatchPublisher{}
	}
	return internalrepo.NewKafkaBatchPublisher(producer, cfg.Kafka.Topic)
}

// ProvideOrchestrator creates the fetch orchestrator over the provider.
func ProvideOrchestrator(ms *marketstack.Client, m domrepo.Metrics, l *applogger.Logger) *usecase.Orchestrator {
	return usecase.NewOrchestrator(ms, m, l)
}

func ProvideProjector(cfg *config.Config) *usecase.Projector {
	return usecase.NewProjector(cfg.Chart.DateLayout, cfg.Chart.Palette)
}

// ProvideRegistry creates the session registry.
func ProvideRegistry(
	catalogs domrepo.CatalogSource,
	orch *usecase.Orchestrator,
	proj *usecase.Projector,
	pub domrepo.BatchPublisher,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Registry {
	return usecase.NewRegistry(catalogs, usecase.ControllerDeps{
		Orchestrator:  orch,
		Projector:     proj,
		Publisher:     pub,
		Metrics:       m,
		Logger:        l,
		DispatchDelay: cfg.Fetch.DispatchDelay,
	}, cfg.Session.IdleTTL)
}

func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Fetch.SubmitBurst, cfg.Fetch.SubmitRefill)
}

func ProvideRenderer(cfg *config.Config) *render.PNG {
	return render.NewPNG(cfg.Chart.Width, cfg.Chart.Height)
}

// ProvideDashboardHandler creates the HTTP handler. Submit waits are bounded
// by the write timeout.
func ProvideDashboardHandler(
	l *applogger.Logger,
	reg *usecase.Registry,
	renderer *render.PNG,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
) *api.DashboardEchoHandler {
	return api.NewDashboardEchoHandler(l, reg, renderer, limiter, cfg.Server.WriteTimeout-time.Second)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, h *api.DashboardEchoHandler, l *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h, l,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetricsPath(metricsPath),
	)
}

func ProvideScheduler(l *applogger.Logger) *scheduler.Scheduler {
	return scheduler.New(l)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	sched *scheduler.Scheduler,
	reg *usecase.Registry,
	limiter *ratelimit.Limiter,
	producer *pkgkafka.Producer,
	c cache.Service,
) *server.App {
	return server.New(cfg, l, srv, sched, reg, limiter, producer, c)
}
