package routes

import (
	"net/http"

	"github.com/gkf-project/gkf/backend/internal/server/middleware"
	"github.com/gkf-project/gkf/backend/pkg/linking"
	"github.com/gkf-project/gkf/backend/pkg/logger"
	"github.com/gkf-project/gkf/backend/pkg/rdf"

	"github.com/labstack/echo/v4"
)

// EnrichGraphHandler resolves the given entities synchronously and returns
// the enrichment triples. With persist set, the triples are also written to
// the configured triple store.
func EnrichGraphHandler(c echo.Context) error {
	type enrichEntity struct {
		URI  string `json:"uri" validate:"required"`
		Name string `json:"name" validate:"required"`
	}

	type enrichGraphRequest struct {
		Entities []enrichEntity `json:"entities" validate:"required,min=1,dive"`
		Sources  []string       `json:"sources"`
		TypeHint string         `json:"type_hint"`
		Persist  bool           `json:"persist"`
	}

	type enrichGraphResponse struct {
		Message      string `json:"message"`
		TriplesAdded int    `json:"triples_added"`
		NTriples     string `json:"ntriples,omitempty"`
		Persisted    bool   `json:"persisted"`
	}

	data := new(enrichGraphRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, enrichGraphResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, enrichGraphResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	if data.Persist && app.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, enrichGraphResponse{
			Message: "No triple store configured",
		})
	}

	entityURIs := make(map[string]rdf.IRI, len(data.Entities))
	entityNames := make(map[string]string, len(data.Entities))
	for _, entity := range data.Entities {
		entityURIs[entity.URI] = rdf.IRI(entity.URI)
		entityNames[entity.URI] = entity.Name
	}

	opts := make([]linking.Option, 0, 2)
	if len(data.Sources) > 0 {
		opts = append(opts, linking.WithSources(data.Sources...))
	}
	if data.TypeHint != "" {
		opts = append(opts, linking.WithTypeHint(data.TypeHint))
	}

	ctx := c.Request().Context()
	g := rdf.NewGraph()
	added := app.Linker.EnrichGraphWithLinks(ctx, g, entityURIs, entityNames, opts...)

	persisted := false
	if data.Persist && added > 0 {
		if err := app.Store.InsertGraph(ctx, g); err != nil {
			logger.Error("Failed to persist enrichment triples", "err", err)
			return c.JSON(http.StatusInternalServerError, enrichGraphResponse{
				Message:      "Failed to persist enrichment triples",
				TriplesAdded: added,
				NTriples:     g.NTriples(),
			})
		}
		persisted = true
	}

	return c.JSON(http.StatusOK, enrichGraphResponse{
		Message:      "Graph enriched successfully",
		TriplesAdded: added,
		NTriples:     g.NTriples(),
		Persisted:    persisted,
	})
}
