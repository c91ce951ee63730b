package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gkf-project/gkf/backend/internal/util"
	"github.com/gkf-project/gkf/backend/pkg/linking"
	"github.com/gkf-project/gkf/backend/pkg/logger"
	"github.com/gkf-project/gkf/backend/pkg/rdf"
	"github.com/gkf-project/gkf/backend/pkg/store"
)

// LinkJobEntity is one entity of an enrichment job: the graph subject it
// enriches and the free-text name sent to the sources.
type LinkJobEntity struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

// LinkJobMsg is the payload published to the link queue.
type LinkJobMsg struct {
	JobID    string          `json:"job_id"`
	Entities []LinkJobEntity `json:"entities"`
	Sources  []string        `json:"sources,omitempty"`
	TypeHint string          `json:"type_hint,omitempty"`
}

// ProcessLinkMessage resolves every entity of one job, buffers the
// enrichment triples and publishes them to the triple store. Store writes
// are retried; a final failure bubbles up so the message lands in the
// retry queue.
func ProcessLinkMessage(
	ctx context.Context,
	linkerClient *linking.EntityLinker,
	tripleStore store.TripleStore,
	msg string,
) error {
	data := new(LinkJobMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("failed to unmarshal link job: %w", err)
	}
	if len(data.Entities) == 0 {
		logger.Warn("[Queue] Link job without entities", "job_id", data.JobID)
		return nil
	}

	start := time.Now()
	logger.Info("[Queue] Processing link job", "job_id", data.JobID, "entities", len(data.Entities))

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

	g := rdf.NewGraph()
	added := linkerClient.EnrichGraphWithLinks(ctx, g, entityURIs, entityNames, opts...)
	if added == 0 {
		logger.Warn("[Queue] Link job resolved no URIs", "job_id", data.JobID)
		return nil
	}

	err := util.RetryErrWithContext(ctx, 3, func(ctx context.Context) error {
		return tripleStore.InsertGraph(ctx, g)
	})
	if err != nil {
		return fmt.Errorf("failed to store enrichment triples for job %s: %w", data.JobID, err)
	}

	logger.Info(
		"[Queue] Link job completed",
		"job_id", data.JobID,
		"entities", len(data.Entities),
		"triples_added", added,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
