package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"entitlement-service/internal/handler/api"
	"entitlement-service/internal/handler/middleware"
	"entitlement-service/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, entitlementHandler *api.EntitlementHandler, purchaseHandler *api.PurchaseHandler, productHandler *api.ProductHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, entitlementHandler, purchaseHandler, productHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, entitlementHandler *api.EntitlementHandler, purchaseHandler *api.PurchaseHandler, productHandler *api.ProductHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		entitlements := apiGroup.Group("/entitlements")
		entitlements.Use(authMiddleware.RequireAuth())
		{
			addRoutes(entitlements, []route{
				{Method: http.MethodGet, Path: "", Handler: entitlementHandler.GetSnapshot},
				{Method: http.MethodGet, Path: "/features/:feature_id", Handler: entitlementHandler.GetFeature},
				{Method: http.MethodGet, Path: "/stream", Handler: entitlementHandler.Stream},
				{Method: http.MethodPost, Path: "/refresh", Handler: entitlementHandler.Refresh},
			})
		}

		products := apiGroup.Group("/products")
		products.Use(authMiddleware.RequireAuth())
		{
			addRoutes(products, []route{
				{Method: http.MethodGet, Path: "", Handler: productHandler.ListProducts},
			})
		}

		purchases := apiGroup.Group("/purchases")
		purchases.Use(authMiddleware.RequireAuth())
		{
			addRoutes(purchases, []route{
				{Method: http.MethodPost, Path: "/subscription", Handler: purchaseHandler.PurchaseSubscription},
				{Method: http.MethodPost, Path: "/units", Handler: purchaseHandler.PurchaseUnit},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
