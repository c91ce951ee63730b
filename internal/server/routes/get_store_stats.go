package routes

import (
	"net/http"

	"github.com/gkf-project/gkf/backend/internal/server/middleware"
	"github.com/gkf-project/gkf/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetStoreStatsHandler reports the triple count of the configured store.
func GetStoreStatsHandler(c echo.Context) error {
	type getStoreStatsResponse struct {
		Message     string `json:"message"`
		TripleCount int    `json:"triple_count"`
	}

	tripleStore := c.(*middleware.AppContext).App.Store
	if tripleStore == nil {
		return c.JSON(http.StatusServiceUnavailable, getStoreStatsResponse{
			Message: "No triple store configured",
		})
	}

	count, err := tripleStore.Count(c.Request().Context())
	if err != nil {
		logger.Error("Failed to fetch triple store stats", "err", err)
		return c.JSON(http.StatusInternalServerError, getStoreStatsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getStoreStatsResponse{
		Message:     "Store stats fetched successfully",
		TripleCount: count,
	})
}
