package server

import (
	"github.com/gkf-project/gkf/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Source discovery routes
	apiRoutes.GET("/sources", routes.GetSourcesHandler)
	apiRoutes.GET("/sources/info", routes.GetRegistryInfoHandler)

	// Linking routes
	apiRoutes.POST("/link", routes.LinkEntityHandler)
	apiRoutes.POST("/link/batch", routes.BatchLinkHandler)
	apiRoutes.POST("/link/jobs", routes.CreateLinkJobHandler)

	// Graph enrichment routes
	apiRoutes.POST("/enrich", routes.EnrichGraphHandler)

	// Triple store routes
	apiRoutes.GET("/store/stats", routes.GetStoreStatsHandler)
}
