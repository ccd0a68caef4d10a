// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"ibeer/internal/domain/catalogs/manufacturer"
	"ibeer/internal/infrastructure/http/v1/handlers"
	"ibeer/internal/infrastructure/http/v1/middleware"
	"ibeer/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Health serves /health/*
	Health *handlers.HealthHandler

	// Manufacturers backs /api/v1/catalog/manufacturers
	Manufacturers *manufacturer.Service

	// Debug switches gin to debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.Health == nil {
		cfg.Health = handlers.NewHealthHandler(nil)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	health := router.Group("/health")
	{
		health.GET("/live", cfg.Health.Live)
		health.GET("/ready", cfg.Health.Ready)
		health.GET("/info", cfg.Health.Info)
	}

	v1 := router.Group("/api/v1")
	registerCatalogRoutes(v1, cfg)

	return router
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- MANUFACTURERS ---
	if cfg.Manufacturers != nil {
		handler := handlers.NewManufacturerHandler(baseHandler, cfg.Manufacturers)
		RegisterCatalogRoutes(catalogs.Group("/manufacturers"), handler)
	}
}
