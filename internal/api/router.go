package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lankaship/courier-gateway/internal/api/handler"
	"github.com/lankaship/courier-gateway/internal/api/middleware"
	"github.com/lankaship/courier-gateway/internal/core/domain"
	"github.com/lankaship/courier-gateway/internal/core/service"
	"github.com/lankaship/courier-gateway/internal/courier"
	"github.com/lankaship/courier-gateway/internal/infrastructure/config"
	mongodb "github.com/lankaship/courier-gateway/internal/infrastructure/db/mongo"
	redisdb "github.com/lankaship/courier-gateway/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// It also returns the composed shipping service so the caller can hand it to
// the background refresh workers.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, *service.ShippingOrchestrator) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("courier_gateway"))

	// --- Dependencies ---
	locationCache := redisdb.NewLocationCache(rdb, log)
	factory := courier.NewFactory(courier.FactoryConfig{
		FardaBaseURL: cfg.Courier.FardaBaseURL,
		TransBaseURL: cfg.Courier.TransBaseURL,
		RoyalBaseURL: cfg.Courier.RoyalBaseURL,
		Timeout:      cfg.Courier.Timeout,
	}, locationCache, log)

	tenantStore := mongodb.NewTenantSettingsRepository(db)
	orderStore := mongodb.NewOrderShipmentRepository(db)
	shippingService := service.NewShippingOrchestrator(factory, tenantStore, orderStore, log)

	shippingHandler := handler.NewShippingHandler(shippingService)
	locationHandler := handler.NewLocationHandler(shippingService)
	authMiddleware := middleware.Auth(cfg.JWTSecret)
	staffOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleMerchant)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Shipping routes ---
	v1 := e.Group("/v1", authMiddleware, staffOnly)
	v1.POST("/shipments", shippingHandler.Create)
	v1.POST("/shipments/manual", shippingHandler.RecordManual)
	v1.GET("/shipments/:order_id/status", shippingHandler.Status)
	v1.GET("/shipments/:order_id/tracking-url", shippingHandler.TrackingURL)
	v1.POST("/rates", shippingHandler.Rates)
	v1.GET("/locations/:provider/districts", locationHandler.Districts)
	v1.GET("/locations/:provider/cities", locationHandler.Cities)

	return e, shippingService
}
