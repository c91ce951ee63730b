package routes

import (
	"net/http"

	"github.com/gkf-project/gkf/backend/internal/queue"
	"github.com/gkf-project/gkf/backend/internal/server/middleware"
	"github.com/gkf-project/gkf/backend/internal/util"
	"github.com/gkf-project/gkf/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CreateLinkJobHandler queues an asynchronous enrichment job. The worker
// resolves the entities and publishes the resulting triples to the triple
// store.
func CreateLinkJobHandler(c echo.Context) error {
	type linkJobEntity struct {
		URI  string `json:"uri" validate:"required"`
		Name string `json:"name" validate:"required"`
	}

	type createLinkJobRequest struct {
		Entities []linkJobEntity `json:"entities" validate:"required,min=1,dive"`
		Sources  []string        `json:"sources"`
		TypeHint string          `json:"type_hint"`
	}

	type createLinkJobResponse struct {
		Message string `json:"message"`
		JobID   string `json:"job_id,omitempty"`
	}

	data := new(createLinkJobRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createLinkJobResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createLinkJobResponse{
			Message: "Invalid request body",
		})
	}

	if c.(*middleware.AppContext).App.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, createLinkJobResponse{
			Message: "No triple store configured",
		})
	}

	jobID, err := util.NewJobID()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createLinkJobResponse{
			Message: "Internal server error",
		})
	}

	entities := make([]queue.LinkJobEntity, 0, len(data.Entities))
	for _, entity := range data.Entities {
		entities = append(entities, queue.LinkJobEntity{
			URI:  entity.URI,
			Name: entity.Name,
		})
	}
	job := queue.LinkJobMsg{
		JobID:    jobID,
		Entities: entities,
		Sources:  data.Sources,
		TypeHint: data.TypeHint,
	}

	ch := c.(*middleware.AppContext).App.Queue
	err = queue.PublishFIFO(ch, queue.LinkQueue, []byte(util.ConvertStructToJson(job)))
	if err != nil {
		logger.Error("Failed to publish to link_queue", "err", err)
		return c.JSON(http.StatusInternalServerError, createLinkJobResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, createLinkJobResponse{
		Message: "Link job queued successfully",
		JobID:   jobID,
	})
}
