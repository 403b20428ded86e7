package components

import (
	"context"
	"log/slog"

	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/pkg/clock"
	"entitlement-service/internal/pkg/config"
	"entitlement-service/internal/usecase"
	"entitlement-service/internal/usecase/commands"
	"entitlement-service/internal/usecase/queries"
	"entitlement-service/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	entitlement.DefaultCatalog,
	NewSessionRegistry,
	usecase.NewStoreProvider,
	usecase.NewProductCatalogCache,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewPurchaseCommands,
		commands.NewEntitlementCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewEntitlementQueries,
		queries.NewProductQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

// NewSessionRegistry ties registry shutdown to the fx lifecycle so every
// running store stops with the app.
func NewSessionRegistry(
	lc fx.Lifecycle,
	gateway shared.LedgerGateway,
	repo shared.SnapshotRepository,
	catalog *entitlement.Catalog,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.Config,
) *usecase.SessionRegistry {
	registry := usecase.NewSessionRegistry(gateway, repo, catalog, clk, logger, cfg.Ledger.Timeout)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			registry.StopAll()
			return nil
		},
	})

	return registry
}

func NewPurchaseCommands(
	gateway shared.LedgerGateway,
	stores commands.StoreProvider,
	catalog *entitlement.Catalog,
	cfg config.Config,
	clk clock.Clock,
	logger *slog.Logger,
) commands.PurchaseCommands {
	return commands.NewPurchaseCommands(gateway, stores, catalog, cfg.Purchasing, clk, logger)
}
