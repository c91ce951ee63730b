package routes

import (
	"net/http"

	"github.com/gkf-project/gkf/backend/internal/server/middleware"
	"github.com/gkf-project/gkf/backend/pkg/linker"

	"github.com/labstack/echo/v4"
)

// GetSourcesHandler lists every registered source with its metadata.
func GetSourcesHandler(c echo.Context) error {
	type getSourcesResponse struct {
		Message string            `json:"message"`
		Sources []linker.Metadata `json:"sources"`
	}

	registry := c.(*middleware.AppContext).App.Linker.Registry()

	sources := make([]linker.Metadata, 0)
	for _, name := range registry.List() {
		instance := registry.Get(name)
		if instance == nil {
			continue
		}
		sources = append(sources, instance.Metadata())
	}

	return c.JSON(http.StatusOK, getSourcesResponse{
		Message: "Sources fetched successfully",
		Sources: sources,
	})
}

// GetRegistryInfoHandler reports registry state without forcing
// instantiation.
func GetRegistryInfoHandler(c echo.Context) error {
	type getRegistryInfoResponse struct {
		Message string      `json:"message"`
		Info    linker.Info `json:"info"`
	}

	registry := c.(*middleware.AppContext).App.Linker.Registry()

	return c.JSON(http.StatusOK, getRegistryInfoResponse{
		Message: "Registry info fetched successfully",
		Info:    registry.RegistryInfo(),
	})
}
