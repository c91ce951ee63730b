// Package esco links entities to the ESCO taxonomy of European skills,
// competences, qualifications and occupations (https://esco.ec.europa.eu).
package esco

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gkf-project/gkf/backend/pkg/linker"
	"github.com/gkf-project/gkf/backend/pkg/logger"
)

// Source is the registry key for this resolver.
const Source = "esco"

const (
	defaultAPIEndpoint = "https://ec.europa.eu/esco/api"
	defaultLanguage    = "en"
	defaultMaxResults  = 10
	defaultTimeout     = 15 * time.Second
)

// typeMapping translates generic type hints to ESCO taxonomy types.
// Unknown hints fall through to an unfiltered search.
var typeMapping = map[string]string{
	"skill":         "skill",
	"competence":    "skill",
	"occupation":    "occupation",
	"job":           "occupation",
	"qualification": "qualification",
}

// Linker resolves entity names against the ESCO search API.
type Linker struct {
	apiEndpoint string
	language    string
	maxResults  int

	client *linker.RESTClient
}

// New creates an ESCO resolver from configuration.
func New(cfg linker.Config) (*Linker, error) {
	apiEndpoint := cfg.Endpoint
	if apiEndpoint == "" {
		apiEndpoint = defaultAPIEndpoint
	}
	if _, err := url.Parse(apiEndpoint); err != nil {
		return nil, fmt.Errorf("invalid esco endpoint: %w", err)
	}

	language := cfg.Language
	if language == "" {
		language = defaultLanguage
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Linker{
		apiEndpoint: strings.TrimRight(apiEndpoint, "/"),
		language:    language,
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

type escoResult struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type escoSearchResponse struct {
	Embedded struct {
		Results []escoResult `json:"results"`
	} `json:"_embedded"`
}

// Link searches ESCO and returns the best match URI. The type hint narrows
// the search to skills, occupations or qualifications when it maps to an
// ESCO taxonomy type.
func (l *Linker) Link(ctx context.Context, entityName, entityType string) (string, bool) {
	entityName = strings.TrimSpace(entityName)
	if entityName == "" {
		return "", false
	}

	uri, err := l.resolve(ctx, entityName, entityType)
	if err != nil {
		if errors.Is(err, linker.ErrNoMatch) {
			logger.Warn("No ESCO match found", "entity", entityName)
		} else {
			logger.Error("ESCO linking failed", "entity", entityName, "err", err)
		}
		return "", false
	}

	logger.Info("Linked entity to ESCO", "entity", entityName, "uri", uri)
	return uri, true
}

func (l *Linker) resolve(ctx context.Context, entityName, entityType string) (string, error) {
	params := url.Values{}
	params.Set("text", entityName)
	params.Set("language", l.language)
	params.Set("limit", strconv.Itoa(l.maxResults))
	if escoType, ok := typeMapping[strings.ToLower(entityType)]; ok {
		params.Set("type", escoType)
	}

	var data escoSearchResponse
	if err := l.client.GetJSON(ctx, l.apiEndpoint+"/search", params, nil, &data); err != nil {
		return "", err
	}

	results := data.Embedded.Results
	if len(results) == 0 {
		return "", linker.ErrNoMatch
	}

	best := results[0]
	for _, result := range results {
		if strings.EqualFold(result.Title, entityName) {
			best = result
			break
		}
	}
	if best.URI == "" {
		return "", linker.ErrNoMatch
	}
	return best.URI, nil
}

// BatchLink resolves each name independently; the search API is per-term.
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
		Domain:    "Skills, competences and occupations taxonomy",
		Transport: linker.TransportRESTSearch,
		Endpoint:  l.apiEndpoint,
	}
}

// SearchSkill is a specialized search for skill entities. Not part of the
// resolver contract; callers use the concrete type.
func (l *Linker) SearchSkill(ctx context.Context, skillName string) (string, bool) {
	return l.Link(ctx, skillName, "skill")
}

// SearchOccupation is a specialized search for occupation entities.
func (l *Linker) SearchOccupation(ctx context.Context, occupationName string) (string, bool) {
	return l.Link(ctx, occupationName, "occupation")
}

// SkillDetails describes an ESCO skill resource.
type SkillDetails struct {
	URI               string   `json:"uri"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	SkillType         string   `json:"skillType"`
	ReuseLevel        string   `json:"reuseLevel"`
	AlternativeLabels []string `json:"alternativeLabels"`
}

// GetSkillDetails fetches detailed information about an ESCO skill URI.
func (l *Linker) GetSkillDetails(ctx context.Context, skillURI string) (*SkillDetails, error) {
	params := url.Values{}
	params.Set("language", l.language)

	var details SkillDetails
	detailURL := l.apiEndpoint + "/resource/skill/" + lastSegment(skillURI)
	if err := l.client.GetJSON(ctx, detailURL, params, nil, &details); err != nil {
		return nil, fmt.Errorf("failed to fetch esco skill details: %w", err)
	}
	return &details, nil
}

// OccupationDetails describes an ESCO occupation resource.
type OccupationDetails struct {
	URI                 string   `json:"uri"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	ISCOGroup           string   `json:"iscoGroup"`
	RegulatedProfession string   `json:"regulatedProfession"`
	AlternativeLabels   []string `json:"alternativeLabels"`
}

// GetOccupationDetails fetches detailed information about an ESCO
// occupation URI.
func (l *Linker) GetOccupationDetails(ctx context.Context, occupationURI string) (*OccupationDetails, error) {
	params := url.Values{}
	params.Set("language", l.language)

	var details OccupationDetails
	detailURL := l.apiEndpoint + "/resource/occupation/" + lastSegment(occupationURI)
	if err := l.client.GetJSON(ctx, detailURL, params, nil, &details); err != nil {
		return nil, fmt.Errorf("failed to fetch esco occupation details: %w", err)
	}
	return &details, nil
}

// GetRelatedSkills returns the URIs of skills related to an occupation.
func (l *Linker) GetRelatedSkills(ctx context.Context, occupationURI string) ([]string, error) {
	params := url.Values{}
	params.Set("language", l.language)

	var data struct {
		Embedded struct {
			Skills []escoResult `json:"skills"`
		} `json:"_embedded"`
	}
	skillsURL := l.apiEndpoint + "/resource/occupation/" + lastSegment(occupationURI) + "/skills"
	if err := l.client.GetJSON(ctx, skillsURL, params, nil, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch related skills: %w", err)
	}

	uris := make([]string, 0, len(data.Embedded.Skills))
	for _, skill := range data.Embedded.Skills {
		if skill.URI != "" {
			uris = append(uris, skill.URI)
		}
	}
	return uris, nil
}

func lastSegment(uri string) string {
	idx := strings.LastIndex(uri, "/")
	if idx < 0 {
		return uri
	}
	return uri[idx+1:]
}
