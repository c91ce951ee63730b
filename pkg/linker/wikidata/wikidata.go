// Package wikidata links entities to Wikidata (https://www.wikidata.org)
// using the wbsearchentities API.
package wikidata

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gkf-project/gkf/backend/pkg/linker"
	"github.com/gkf-project/gkf/backend/pkg/logger"
)

// Source is the registry key for this resolver.
const Source = "wikidata"

const (
	defaultAPIEndpoint        = "https://www.wikidata.org/w/api.php"
	defaultEntityDataEndpoint = "https://www.wikidata.org/wiki/Special:EntityData/"
	defaultSPARQLEndpoint     = "https://query.wikidata.org/sparql"
	defaultLanguage           = "en"
	defaultMaxResults         = 5

	entityURIPrefix = "http://www.wikidata.org/entity/"
)

// Linker resolves entity names against the Wikidata search API.
type Linker struct {
	apiEndpoint        string
	entityDataEndpoint string
	language           string
	maxResults         int

	client *linker.RESTClient
	sparql *linker.SPARQLClient
}

// New creates a Wikidata resolver from configuration. Invalid endpoint URLs
// fail fast; everything else falls back to defaults.
func New(cfg linker.Config) (*Linker, error) {
	apiEndpoint := cfg.Endpoint
	if apiEndpoint == "" {
		apiEndpoint = defaultAPIEndpoint
	}
	if _, err := url.Parse(apiEndpoint); err != nil {
		return nil, fmt.Errorf("invalid wikidata endpoint: %w", err)
	}

	entityDataEndpoint := cfg.Extra["entity_data_endpoint"]
	if entityDataEndpoint == "" {
		entityDataEndpoint = defaultEntityDataEndpoint
	}
	sparqlEndpoint := cfg.Extra["sparql_endpoint"]
	if sparqlEndpoint == "" {
		sparqlEndpoint = defaultSPARQLEndpoint
	}

	language := cfg.Language
	if language == "" {
		language = defaultLanguage
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	return &Linker{
		apiEndpoint:        apiEndpoint,
		entityDataEndpoint: entityDataEndpoint,
		language:           language,
		maxResults:         maxResults,
		client:             linker.NewRESTClient(cfg),
		sparql:             linker.NewSPARQLClient(sparqlEndpoint, cfg),
	}, nil
}

// Factory adapts New to the registry's factory signature.
func Factory(cfg linker.Config) (linker.Linker, error) {
	return New(cfg)
}

// SourceName returns the registry key.
func (l *Linker) SourceName() string {
	return Source
}

type searchResult struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type searchResponse struct {
	Search []searchResult `json:"search"`
}

// Link searches Wikidata for the entity and returns the best match URI,
// e.g. "http://www.wikidata.org/entity/Q28865". The type hint, when given,
// prefers results whose description mentions it.
func (l *Linker) Link(ctx context.Context, entityName, entityType string) (string, bool) {
	entityName = strings.TrimSpace(entityName)
	if entityName == "" {
		return "", false
	}

	uri, err := l.resolve(ctx, entityName, entityType)
	if err != nil {
		if errors.Is(err, linker.ErrNoMatch) {
			logger.Warn("No Wikidata match found", "entity", entityName)
		} else {
			logger.Error("Wikidata linking failed", "entity", entityName, "err", err)
		}
		return "", false
	}

	logger.Info("Linked entity to Wikidata", "entity", entityName, "uri", uri)
	return uri, true
}

func (l *Linker) resolve(ctx context.Context, entityName, entityType string) (string, error) {
	params := url.Values{}
	params.Set("action", "wbsearchentities")
	params.Set("format", "json")
	params.Set("language", l.language)
	params.Set("search", entityName)
	params.Set("limit", strconv.Itoa(l.maxResults))

	var data searchResponse
	if err := l.client.GetJSON(ctx, l.apiEndpoint, params, nil, &data); err != nil {
		return "", err
	}
	if len(data.Search) == 0 {
		return "", linker.ErrNoMatch
	}

	best := selectBestMatch(data.Search, entityName, entityType)
	return entityURIPrefix + best.ID, nil
}

// selectBestMatch is deterministic for identical input: a type hint matching
// a result description wins, then an exact case-insensitive label match,
// then the first result.
func selectBestMatch(results []searchResult, entityName, entityType string) searchResult {
	if entityType != "" {
		hint := strings.ToLower(entityType)
		for _, result := range results {
			if strings.Contains(strings.ToLower(result.Description), hint) {
				return result
			}
		}
	}
	for _, result := range results {
		if strings.EqualFold(result.Label, entityName) {
			return result
		}
	}
	return results[0]
}

// BatchLink resolves each name independently; Wikidata has no bulk search.
func (l *Linker) BatchLink(ctx context.Context, entityNames []string) map[string]string {
	return linker.BatchLink(ctx, l, entityNames)
}

// ValidateURI checks candidate structurally, no network round trip.
func (l *Linker) ValidateURI(candidate string) bool {
	return linker.ValidURI(candidate)
}

// Metadata describes this source for discovery endpoints.
func (l *Linker) Metadata() linker.Metadata {
	return linker.Metadata{
		Source:    Source,
		Domain:    "General knowledge base",
		Transport: linker.TransportRESTSearch,
		Endpoint:  l.apiEndpoint,
	}
}

// EntityDetails fetches the full entity record for a Wikidata ID like "Q28865".
func (l *Linker) EntityDetails(ctx context.Context, wikidataID string) (map[string]any, error) {
	params := url.Values{}
	params.Set("action", "wbgetentities")
	params.Set("format", "json")
	params.Set("ids", wikidataID)
	params.Set("languages", l.language)

	var data struct {
		Entities map[string]map[string]any `json:"entities"`
	}
	if err := l.client.GetJSON(ctx, l.apiEndpoint, params, nil, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch wikidata entity %s: %w", wikidataID, err)
	}

	entity, ok := data.Entities[wikidataID]
	if !ok {
		return nil, linker.ErrNoMatch
	}
	return entity, nil
}

// QuerySPARQL runs a caller-supplied query against the Wikidata SPARQL
// endpoint and returns the result bindings.
func (l *Linker) QuerySPARQL(ctx context.Context, query string) ([]linker.Binding, error) {
	return l.sparql.Select(ctx, query)
}

var rdfFormats = map[string]string{
	"turtle":  "text/turtle",
	"json-ld": "application/ld+json",
	"rdf+xml": "application/rdf+xml",
}

// EntityRDF retrieves the full RDF data for an entity via content
// negotiation on the Special:EntityData endpoint. Supported formats:
// "turtle", "json-ld", "rdf+xml".
func (l *Linker) EntityRDF(ctx context.Context, wikidataID, rdfFormat string) (string, error) {
	mimeType, ok := rdfFormats[rdfFormat]
	if !ok {
		return "", fmt.Errorf("unsupported RDF format: %s", rdfFormat)
	}

	body, err := l.client.GetRaw(ctx, l.entityDataEndpoint+wikidataID, nil, map[string]string{
		"Accept": mimeType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch RDF data for %s: %w", wikidataID, err)
	}
	return string(body), nil
}
