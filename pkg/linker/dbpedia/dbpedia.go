// Package dbpedia links entities to DBpedia (https://dbpedia.org) using the
// DBpedia Lookup service.
package dbpedia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gkf-project/gkf/backend/pkg/linker"
	"github.com/gkf-project/gkf/backend/pkg/logger"
)

// Source is the registry key for this resolver.
const Source = "dbpedia"

const (
	defaultAPIEndpoint = "https://lookup.dbpedia.org/api/search"
	defaultMaxResults  = 1

	resourcePrefix = "http://dbpedia.org/resource/"
	dataPrefix     = "http://dbpedia.org/data/"
)

// Linker resolves entity names against the DBpedia Lookup API.
type Linker struct {
	apiEndpoint string
	maxResults  int

	client *linker.RESTClient
}

// New creates a DBpedia resolver from configuration.
func New(cfg linker.Config) (*Linker, error) {
	apiEndpoint := cfg.Endpoint
	if apiEndpoint == "" {
		apiEndpoint = defaultAPIEndpoint
	}
	if _, err := url.Parse(apiEndpoint); err != nil {
		return nil, fmt.Errorf("invalid dbpedia endpoint: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	return &Linker{
		apiEndpoint: apiEndpoint,
		maxResults:  maxResults,
		client:      linker.NewRESTClient(cfg),
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

// flexStrings accepts both a JSON string and a JSON array of strings; the
// Lookup API returns either depending on the field and version.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*f = []string{single}
	return nil
}

type lookupDoc struct {
	Resource flexStrings `json:"resource"`
	Label    flexStrings `json:"label"`
}

type lookupResponse struct {
	Docs []lookupDoc `json:"docs"`
}

// Link searches DBpedia Lookup and returns the best match URI, e.g.
// "http://dbpedia.org/resource/Python_(programming_language)". The type
// hint is forwarded as the Lookup typeName filter.
func (l *Linker) Link(ctx context.Context, entityName, entityType string) (string, bool) {
	entityName = strings.TrimSpace(entityName)
	if entityName == "" {
		return "", false
	}

	uri, err := l.resolve(ctx, entityName, entityType)
	if err != nil {
		if errors.Is(err, linker.ErrNoMatch) {
			logger.Warn("No DBpedia match found", "entity", entityName)
		} else {
			logger.Error("DBpedia linking failed", "entity", entityName, "err", err)
		}
		return "", false
	}

	logger.Info("Linked entity to DBpedia", "entity", entityName, "uri", uri)
	return uri, true
}

func (l *Linker) resolve(ctx context.Context, entityName, entityType string) (string, error) {
	params := url.Values{}
	params.Set("query", entityName)
	params.Set("format", "json")
	params.Set("maxResults", strconv.Itoa(l.maxResults))
	if entityType != "" {
		params.Set("typeName", entityType)
	}

	var data lookupResponse
	if err := l.client.GetJSON(ctx, l.apiEndpoint, params, nil, &data); err != nil {
		return "", err
	}

	best := selectBestMatch(data.Docs, entityName)
	if best == nil || len(best.Resource) == 0 {
		return "", linker.ErrNoMatch
	}
	return best.Resource[0], nil
}

// selectBestMatch prefers an exact case-insensitive label match and falls
// back to the first doc, deterministic for identical input.
func selectBestMatch(docs []lookupDoc, entityName string) *lookupDoc {
	if len(docs) == 0 {
		return nil
	}
	for i := range docs {
		for _, label := range docs[i].Label {
			if strings.EqualFold(stripMarkup(label), entityName) {
				return &docs[i]
			}
		}
	}
	return &docs[0]
}

// stripMarkup drops the <B> highlighting tags Lookup wraps around matched
// label terms.
func stripMarkup(label string) string {
	label = strings.ReplaceAll(label, "<B>", "")
	label = strings.ReplaceAll(label, "</B>", "")
	return strings.TrimSpace(label)
}

// BatchLink resolves each name independently; Lookup has no bulk search.
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
		Domain:    "Encyclopedic resource",
		Transport: linker.TransportRESTSearch,
		Endpoint:  l.apiEndpoint,
	}
}

// EntityInfo fetches the JSON data record behind a DBpedia resource URI.
func (l *Linker) EntityInfo(ctx context.Context, dbpediaURI string) (map[string]any, error) {
	if !strings.HasPrefix(dbpediaURI, resourcePrefix) {
		return nil, fmt.Errorf("not a dbpedia resource URI: %s", dbpediaURI)
	}
	dataURI := strings.Replace(dbpediaURI, resourcePrefix, dataPrefix, 1) + ".json"

	var data map[string]map[string]any
	if err := l.client.GetJSON(ctx, dataURI, nil, nil, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch dbpedia info for %s: %w", dbpediaURI, err)
	}

	info, ok := data[dbpediaURI]
	if !ok {
		return nil, linker.ErrNoMatch
	}
	return info, nil
}
