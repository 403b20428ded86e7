package components

import (
	"entitlement-service/internal/handler"
	"entitlement-service/internal/handler/api"
	"entitlement-service/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewEntitlementHandler,
		api.NewPurchaseHandler,
		api.NewProductHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
