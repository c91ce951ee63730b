package routes

import (
	"net/http"

	"github.com/gkf-project/gkf/backend/internal/server/middleware"
	"github.com/gkf-project/gkf/backend/pkg/linking"

	"github.com/labstack/echo/v4"
)

// LinkEntityHandler resolves one entity name against the selected sources.
func LinkEntityHandler(c echo.Context) error {
	type linkEntityRequest struct {
		Name     string   `json:"name" validate:"required"`
		TypeHint string   `json:"type_hint"`
		Sources  []string `json:"sources"`
		Prefer   []string `json:"prefer"`
	}

	type linkEntityResponse struct {
		Message string            `json:"message"`
		Entity  string            `json:"entity,omitempty"`
		Links   map[string]string `json:"links,omitempty"`
	}

	data := new(linkEntityRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, linkEntityResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, linkEntityResponse{
			Message: "Invalid request body",
		})
	}

	opts := make([]linking.Option, 0, 3)
	if len(data.Sources) > 0 {
		opts = append(opts, linking.WithSources(data.Sources...))
	}
	if data.TypeHint != "" {
		opts = append(opts, linking.WithTypeHint(data.TypeHint))
	}
	if len(data.Prefer) > 0 {
		opts = append(opts, linking.WithPrefer(data.Prefer...))
	}

	ctx := c.Request().Context()
	linkerClient := c.(*middleware.AppContext).App.Linker
	links := linkerClient.LinkEntity(ctx, data.Name, opts...)

	return c.JSON(http.StatusOK, linkEntityResponse{
		Message: "Entity linked successfully",
		Entity:  data.Name,
		Links:   links,
	})
}
