//go:build wireinject
// +build wireinject

package di

import (
	"StockDash/pkg/config"
	"StockDash/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvideMarketstackClient,

		// Repositories
		ProvideCatalogSource,
		ProvideBatchPublisher,

		// Use cases
		ProvideOrchestrator,
		ProvideProjector,
		ProvideRegistry,

		// HTTP
		ProvideLimiter,
		ProvideRenderer,
		ProvideDashboardHandler,
		ProvideHTTPServer,

		// Application server
		ProvideScheduler,
		ProvideApp,
	)
	return &server.App{}, nil
}
