// Package linker defines the contract every Linked Open Data resolver
// implements, the registry that manages resolver lifecycles, and the shared
// REST/SPARQL transports the resolvers are built on.
package linker

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Transport identifies how a source is queried.
type Transport string

const (
	TransportRESTSearch Transport = "rest-search"
	TransportSPARQL     Transport = "sparql"
)

// Metadata describes a source for discovery endpoints. Static, no I/O.
type Metadata struct {
	Source    string    `json:"source"`
	Domain    string    `json:"domain"`
	Transport Transport `json:"transport"`
	Endpoint  string    `json:"endpoint"`
}

// Config carries per-source settings. Zero values fall back to each
// resolver's defaults; keys a resolver does not understand are ignored.
type Config struct {
	Endpoint              string
	Timeout               time.Duration
	MaxResults            int
	Language              string
	RequestsPerSecond     float64
	MaxConcurrentRequests int64
	Extra                 map[string]string
}

// Linker resolves free-text entity names to canonical URIs in one LOD source.
//
// Link performs the external lookup. The boolean result is false when the
// name is empty, the source has no match, or the lookup failed; failures are
// logged inside the resolver and never surface as errors or panics.
type Linker interface {
	SourceName() string
	Link(ctx context.Context, entityName, entityType string) (string, bool)
	BatchLink(ctx context.Context, entityNames []string) map[string]string
	ValidateURI(candidate string) bool
	Metadata() Metadata
}

// Factory constructs a resolver from configuration. Factories do no I/O.
type Factory func(cfg Config) (Linker, error)

// BatchLink is the default batch behavior: one Link call per name, results
// keyed by name with "" for misses. Duplicate names collapse to one key.
// Resolvers without a bulk API embed this directly.
func BatchLink(ctx context.Context, l Linker, entityNames []string) map[string]string {
	results := make(map[string]string, len(entityNames))
	for _, name := range entityNames {
		uri, ok := l.Link(ctx, name, "")
		if !ok {
			uri = ""
		}
		results[name] = uri
	}
	return results
}

// ValidURI reports whether candidate is a structurally valid absolute
// http(s) URI. It performs no network check.
func ValidURI(candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
