package v1

import (
	"github.com/gin-gonic/gin"
)

// CatalogRouteHandler defines the interface for catalog handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// ActiveListHandler is an optional interface for catalogs that can list only active records.
type ActiveListHandler interface {
	ListActive(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// If the handler also implements ActiveListHandler, GET /active is registered too.
//
// Usage:
//
//	repo := catalog_repo.NewManufacturerRepo(txManager)
//	service := manufacturer.NewService(repo, txManager)
//	handler := handlers.NewManufacturerHandler(baseHandler, service)
//	RegisterCatalogRoutes(catalogs.Group("/manufacturers"), handler)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)

	if active, ok := handler.(ActiveListHandler); ok {
		group.GET("/active", active.ListActive)
	}

	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
}
