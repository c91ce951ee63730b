// Package fuseki implements the triple store contract against a SPARQL 1.1
// endpoint such as Apache Jena Fuseki.
package fuseki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gkf-project/gkf/backend/pkg/linker"
	"github.com/gkf-project/gkf/backend/pkg/logger"
	"github.com/gkf-project/gkf/backend/pkg/rdf"
	"github.com/gkf-project/gkf/backend/pkg/store"
)

const defaultTimeout = 30 * time.Second

// Store talks to one Fuseki dataset over the SPARQL query and update
// protocols.
type Store struct {
	queryEndpoint  string
	updateEndpoint string

	httpClient *http.Client
	sparql     *linker.SPARQLClient
}

// NewStoreParams configures a Fuseki store client.
type NewStoreParams struct {
	// BaseURL is the dataset URL, e.g. "http://localhost:3030/gkf".
	// The query and update endpoints derive from it unless overridden.
	BaseURL        string
	QueryEndpoint  string
	UpdateEndpoint string
	Timeout        time.Duration
}

// NewStore builds a store client for one dataset.
func NewStore(params NewStoreParams) (*Store, error) {
	base := strings.TrimRight(params.BaseURL, "/")
	queryEndpoint := params.QueryEndpoint
	if queryEndpoint == "" {
		queryEndpoint = base + "/query"
	}
	updateEndpoint := params.UpdateEndpoint
	if updateEndpoint == "" {
		updateEndpoint = base + "/update"
	}
	if !linker.ValidURI(queryEndpoint) || !linker.ValidURI(updateEndpoint) {
		return nil, fmt.Errorf("invalid triple store endpoint: %q", params.BaseURL)
	}

	timeout := params.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Store{
		queryEndpoint:  queryEndpoint,
		updateEndpoint: updateEndpoint,
		httpClient:     &http.Client{Timeout: timeout},
		sparql:         linker.NewSPARQLClient(queryEndpoint, linker.Config{Timeout: timeout}),
	}, nil
}

var _ store.TripleStore = (*Store)(nil)

// InsertGraph publishes every buffered statement with one INSERT DATA
// update. An empty graph is a no-op.
func (s *Store) InsertGraph(ctx context.Context, g *rdf.Graph) error {
	if g.Len() == 0 {
		return nil
	}

	update := "INSERT DATA {\n" + g.NTriples() + "}"
	if err := s.Update(ctx, update); err != nil {
		return fmt.Errorf("failed to insert graph: %w", err)
	}

	logger.Info("Inserted graph into triple store", "triples", g.Len())
	return nil
}

// Update executes a SPARQL UPDATE against the update endpoint.
func (s *Store) Update(ctx context.Context, update string) error {
	form := url.Values{}
	form.Set("update", update)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.updateEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("update request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d from update endpoint: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// Select runs a SPARQL SELECT against the query endpoint.
func (s *Store) Select(ctx context.Context, query string) ([]linker.Binding, error) {
	return s.sparql.Select(ctx, query)
}

// Count returns the number of triples in the dataset.
func (s *Store) Count(ctx context.Context) (int, error) {
	bindings, err := s.sparql.Select(ctx, "SELECT (COUNT(*) AS ?count) WHERE { ?s ?p ?o }")
	if err != nil {
		return 0, fmt.Errorf("failed to count triples: %w", err)
	}
	if len(bindings) == 0 {
		return 0, nil
	}
	count, err := strconv.Atoi(bindings[0].Value("count"))
	if err != nil {
		return 0, fmt.Errorf("unexpected count value %q: %w", bindings[0].Value("count"), err)
	}
	return count, nil
}

// Ping checks reachability with a trivial query.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.sparql.Select(ctx, "SELECT ?s WHERE { ?s ?p ?o } LIMIT 1"); err != nil {
		return fmt.Errorf("triple store unreachable: %w", err)
	}
	return nil
}
