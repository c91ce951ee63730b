package routes

import (
	"net/http"

	"github.com/gkf-project/gkf/backend/internal/server/middleware"
	"github.com/gkf-project/gkf/backend/pkg/linking"

	"github.com/labstack/echo/v4"
)

// BatchLinkHandler resolves several entity names in one request.
func BatchLinkHandler(c echo.Context) error {
	type batchLinkRequest struct {
		Names    []string `json:"names" validate:"required,min=1"`
		TypeHint string   `json:"type_hint"`
		Sources  []string `json:"sources"`
	}

	type batchLinkResponse struct {
		Message string                       `json:"message"`
		Results map[string]map[string]string `json:"results,omitempty"`
	}

	data := new(batchLinkRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, batchLinkResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, batchLinkResponse{
			Message: "Invalid request body",
		})
	}

	opts := make([]linking.Option, 0, 2)
	if len(data.Sources) > 0 {
		opts = append(opts, linking.WithSources(data.Sources...))
	}
	if data.TypeHint != "" {
		opts = append(opts, linking.WithTypeHint(data.TypeHint))
	}

	ctx := c.Request().Context()
	linkerClient := c.(*middleware.AppContext).App.Linker
	results := linkerClient.BatchLinkEntities(ctx, data.Names, opts...)

	return c.JSON(http.StatusOK, batchLinkResponse{
		Message: "Entities linked successfully",
		Results: results,
	})
}
