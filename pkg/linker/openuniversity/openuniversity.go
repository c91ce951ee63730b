// Package openuniversity links entities to the Open University Linked Data
// platform (http://data.open.ac.uk).
package openuniversity

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
const Source = "openuniversity"

const (
	defaultSPARQLEndpoint = "http://data.open.ac.uk/query"
	defaultMaxResults     = 10
	defaultTimeout        = 15 * time.Second
)

// typeMapping translates generic type hints to AIISO classes.
var typeMapping = map[string]string{
	"course":        "http://purl.org/vocab/aiiso/schema#Course",
	"qualification": "http://purl.org/vocab/aiiso/schema#Qualification",
	"unit":          "http://purl.org/vocab/aiiso/schema#OrganizationalUnit",
}

// Linker resolves entity names against the Open University SPARQL endpoint.
type Linker struct {
	maxResults int
	sparql     *linker.SPARQLClient
}

// New creates an Open University resolver from configuration.
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

// Link searches the Open University dataset for a label match and returns
// the subject URI. Type hints narrow the search to courses, qualifications
// or organizational units.
func (l *Linker) Link(ctx context.Context, entityName, entityType string) (string, bool) {
	entityName = strings.TrimSpace(entityName)
	if entityName == "" {
		return "", false
	}

	uri, err := l.resolve(ctx, entityName, entityType)
	if err != nil {
		if errors.Is(err, linker.ErrNoMatch) {
			logger.Warn("No Open University match found", "entity", entityName)
		} else {
			logger.Error("Open University linking failed", "entity", entityName, "err", err)
		}
		return "", false
	}

	logger.Info("Linked entity to Open University", "entity", entityName, "uri", uri)
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
PREFIX skos: <http://www.w3.org/2004/02/skos/core#>
PREFIX aiiso: <http://purl.org/vocab/aiiso/schema#>

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
		Domain:    "Open University courses and qualifications",
		Transport: linker.TransportSPARQL,
		Endpoint:  l.sparql.Endpoint(),
	}
}

// CourseDetails describes an Open University course resource.
type CourseDetails struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Credits     string `json:"credits,omitempty"`
}

// GetCourseDetails fetches label, description and credits for a course URI.
func (l *Linker) GetCourseDetails(ctx context.Context, courseURI string) (*CourseDetails, error) {
	if !linker.ValidIRIRef(courseURI) {
		return nil, fmt.Errorf("invalid course URI: %s", courseURI)
	}

	query := fmt.Sprintf(`PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX mlo: <http://purl.org/net/mlo/>

SELECT ?label ?description ?credits WHERE {
    <%s> rdfs:label ?label .
    OPTIONAL { <%s> rdfs:comment ?description . }
    OPTIONAL { <%s> mlo:credit ?credits . }
}`, courseURI, courseURI, courseURI)

	bindings, err := l.sparql.Select(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course details: %w", err)
	}
	if len(bindings) == 0 {
		return nil, linker.ErrNoMatch
	}

	return &CourseDetails{
		Label:       bindings[0].Value("label"),
		Description: bindings[0].Value("description"),
		Credits:     bindings[0].Value("credits"),
	}, nil
}
