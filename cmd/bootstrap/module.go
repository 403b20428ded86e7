package bootstrap

import (
	"entitlement-service/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	LedgerModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
