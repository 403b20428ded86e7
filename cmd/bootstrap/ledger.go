package bootstrap

import (
	"log/slog"

	ledgerinfra "entitlement-service/internal/infra/ledger"
	"entitlement-service/internal/pkg/config"
	"entitlement-service/internal/usecase/shared"

	"go.uber.org/fx"
)

var LedgerModule = fx.Module("ledger",
	fx.Provide(
		fx.Annotate(
			NewLedgerClient,
			fx.As(new(shared.LedgerGateway)),
		),
	),
)

func NewLedgerClient(cfg config.Config, logger *slog.Logger) *ledgerinfra.Client {
	return ledgerinfra.NewClient(cfg.Ledger, logger)
}
