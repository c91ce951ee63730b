// Package linkeduniversities links entities to the LinkedUniversities.org
// dataset of academic institutions, courses and programs.
package linkeduniversities

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gkf-project/gkf/backend/pkg/linker"
	"github.com/gkf-project/gkf/backend/pkg/logger"
)

// Source is the registry key for this resolver.
const Source = "linkeduniversities"

const (
	defaultSPARQLEndpoint = "http://linkeduniversities.org/sparql"
	defaultMaxResults     = 10
	defaultTimeout        = 15 * time.Second
)

// typeMapping translates generic type hints to AIISO classes.
var typeMapping = map[string]string{
	"university": "http://purl.org/vocab/aiiso/schema#Institution",
	"course":     "http://purl.org/vocab/aiiso/schema#Course",
	"program":    "http://purl.org/vocab/aiiso/schema#Programme",
	"module":     "http://purl.org/vocab/aiiso/schema#Module",
}

// Linker resolves entity names against the LinkedUniversities SPARQL
// endpoint.
type Linker struct {
	maxResults int
	sparql     *linker.SPARQLClient
}

// New creates a LinkedUniversities resolver from configuration.
func New(cfg linker.Config) (*Linker, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultSPARQLEndpoint
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Linker{
		maxResults: maxResults,
		sparql:     linker.NewSPARQLClient(endpoint, cfg),
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

// Link searches LinkedUniversities for a label match and returns the
// subject URI. Type hints narrow the search to institutions, courses,
// programs or modules.
func (l *Linker) Link(ctx context.Context, entityName, entityType string) (string, bool) {
	entityName = strings.TrimSpace(entityName)
	if entityName == "" {
		return "", false
	}

	uri, err := l.resolve(ctx, entityName, entityType)
	if err != nil {
		if errors.Is(err, linker.ErrNoMatch) {
			logger.Warn("No LinkedUniversities match found", "entity", entityName)
		} else {
			logger.Error("LinkedUniversities linking failed", "entity", entityName, "err", err)
		}
		return "", false
	}

	logger.Info("Linked entity to LinkedUniversities", "entity", entityName, "uri", uri)
	return uri, true
}

func (l *Linker) resolve(ctx context.Context, entityName, entityType string) (string, error) {
	bindings, err := l.sparql.Select(ctx, l.buildQuery(entityName, entityType))
	if err != nil {
		return "", err
	}
	if len(bindings) == 0 {
		return "", linker.ErrNoMatch
	}

	uri := bindings[0].Value("uri")
	if uri == "" {
		return "", linker.ErrNoMatch
	}
	return uri, nil
}

func (l *Linker) buildQuery(entityName, entityType string) string {
	typeFilter := ""
	if class, ok := typeMapping[strings.ToLower(entityType)]; ok {
		typeFilter = fmt.Sprintf("?uri a <%s> .", class)
	}

	return fmt.Sprintf(`PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX aiiso: <http://purl.org/vocab/aiiso/schema#>
PREFIX foaf: <http://xmlns.com/foaf/0.1/>

SELECT DISTINCT ?uri ?label WHERE {
    ?uri rdfs:label ?label .
    %s
    FILTER(CONTAINS(LCASE(STR(?label)), LCASE("%s")))
}
LIMIT %d`, typeFilter, linker.EscapeLiteral(entityName), l.maxResults)
}

// BatchLink resolves each name independently.
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
		Domain:    "Academic institutions, courses and programs",
		Transport: linker.TransportSPARQL,
		Endpoint:  l.sparql.Endpoint(),
	}
}

// SearchUniversity is a specialized search for institutions. Not part of
// the resolver contract; callers use the concrete type.
func (l *Linker) SearchUniversity(ctx context.Context, universityName string) (string, bool) {
	return l.Link(ctx, universityName, "university")
}

// SearchCourse is a specialized search for courses.
func (l *Linker) SearchCourse(ctx context.Context, courseName string) (string, bool) {
	return l.Link(ctx, courseName, "course")
}

// UniversityDetails describes an institution resource.
type UniversityDetails struct {
	Label    string `json:"label"`
	Homepage string `json:"homepage,omitempty"`
}

// GetUniversityDetails fetches label and homepage for an institution URI.
func (l *Linker) GetUniversityDetails(ctx context.Context, universityURI string) (*UniversityDetails, error) {
	if !linker.ValidIRIRef(universityURI) {
		return nil, fmt.Errorf("invalid university URI: %s", universityURI)
	}

	query := fmt.Sprintf(`PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX foaf: <http://xmlns.com/foaf/0.1/>

SELECT ?label ?homepage WHERE {
    <%s> rdfs:label ?label .
    OPTIONAL { <%s> foaf:homepage ?homepage . }
}`, universityURI, universityURI)

	bindings, err := l.sparql.Select(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch university details: %w", err)
	}
	if len(bindings) == 0 {
		return nil, linker.ErrNoMatch
	}

	return &UniversityDetails{
		Label:    bindings[0].Value("label"),
		Homepage: bindings[0].Value("homepage"),
	}, nil
}
