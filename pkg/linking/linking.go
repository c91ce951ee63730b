// Package linking is the high-level entity linking facade: it fans one
// entity out over the registered Linked Open Data sources, collects the
// resolved URIs, and writes them into an RDF graph as enrichment triples.
package linking

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gkf-project/gkf/backend/pkg/linker"
	"github.com/gkf-project/gkf/backend/pkg/linker/dbpedia"
	"github.com/gkf-project/gkf/backend/pkg/linker/esco"
	"github.com/gkf-project/gkf/backend/pkg/linker/linkeduniversities"
	"github.com/gkf-project/gkf/backend/pkg/linker/openuniversity"
	"github.com/gkf-project/gkf/backend/pkg/linker/wikidata"
	"github.com/gkf-project/gkf/backend/pkg/logger"
	"github.com/gkf-project/gkf/backend/pkg/rdf"
)

// maxConcurrentSources bounds the fan-out per LinkEntity call.
const maxConcurrentSources = 5

// EntityLinker coordinates lookups across the sources in one registry.
type EntityLinker struct {
	registry *linker.Registry
}

// NewEntityLinker builds a facade over the given registry. A nil registry
// falls back to the process-wide default.
func NewEntityLinker(registry *linker.Registry) *EntityLinker {
	if registry == nil {
		registry = GetRegistry()
	}
	return &EntityLinker{registry: registry}
}

type linkOptions struct {
	sources  []string
	typeHint string
	prefer   []string
}

// Option adjusts a single linking call.
type Option func(*linkOptions)

// WithSources restricts the call to the given source keys. Keys that are
// not registered are skipped and do not appear in the result.
func WithSources(sources ...string) Option {
	return func(o *linkOptions) {
		o.sources = sources
	}
}

// WithTypeHint passes an entity type hint to every source. Sources that
// cannot use the hint ignore it.
func WithTypeHint(typeHint string) Option {
	return func(o *linkOptions) {
		o.typeHint = typeHint
	}
}

// WithPrefer schedules the given sources first. A scheduling hint only:
// it never changes which sources run or what the result contains.
func WithPrefer(sources ...string) Option {
	return func(o *linkOptions) {
		o.prefer = sources
	}
}

// Registry exposes the underlying registry for custom source management.
func (e *EntityLinker) Registry() *linker.Registry {
	return e.registry
}

// LinkEntity resolves one entity name against every selected source
// concurrently. The result maps source keys to resolved URIs; a source
// that ran but found nothing (or failed) maps to "", a source that is not
// registered is omitted. One slow or broken source never blocks the others
// beyond the context deadline.
func (e *EntityLinker) LinkEntity(ctx context.Context, entityName string, opts ...Option) map[string]string {
	options := &linkOptions{}
	for _, opt := range opts {
		opt(options)
	}

	sources := e.selectSources(options)
	results := make(map[string]string, len(sources))
	if len(sources) == 0 {
		return results
	}

	var mu sync.Mutex
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentSources)
	for _, source := range sources {
		source := source
		instance := e.registry.Get(source)
		if instance == nil {
			continue
		}
		eg.Go(func() error {
			uri, ok := instance.Link(ectx, entityName, options.typeHint)
			if !ok {
				uri = ""
			}
			mu.Lock()
			results[source] = uri
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors, failures surface as "" values.
	_ = eg.Wait()

	return results
}

// selectSources resolves the requested source set against the registry and
// orders it with preferred sources first.
func (e *EntityLinker) selectSources(options *linkOptions) []string {
	requested := options.sources
	if len(requested) == 0 {
		requested = e.registry.List()
	}

	available := make([]string, 0, len(requested))
	seen := make(map[string]struct{}, len(requested))
	for _, source := range requested {
		if _, dup := seen[source]; dup {
			continue
		}
		seen[source] = struct{}{}
		if e.registry.Has(source) {
			available = append(available, source)
		} else if len(options.sources) > 0 {
			logger.Warn("Skipping unregistered linking source", "source", source)
		}
	}

	if len(options.prefer) == 0 {
		return available
	}

	preferred := make(map[string]int, len(options.prefer))
	for i, source := range options.prefer {
		preferred[source] = i
	}
	ordered := make([]string, 0, len(available))
	rest := make([]string, 0, len(available))
	for _, source := range available {
		if _, ok := preferred[source]; ok {
			ordered = append(ordered, source)
		} else {
			rest = append(rest, source)
		}
	}
	return append(ordered, rest...)
}

// LinkEntityToSource resolves one entity against a single source. Returns
// false when the source is not registered or found no match.
func (e *EntityLinker) LinkEntityToSource(ctx context.Context, source, entityName, typeHint string) (string, bool) {
	instance := e.registry.Get(source)
	if instance == nil {
		return "", false
	}
	return instance.Link(ctx, entityName, typeHint)
}

// BatchLinkEntities resolves several entity names, each against every
// selected source. The outer map is keyed by entity name.
func (e *EntityLinker) BatchLinkEntities(ctx context.Context, entityNames []string, opts ...Option) map[string]map[string]string {
	results := make(map[string]map[string]string, len(entityNames))
	for _, name := range entityNames {
		results[name] = e.LinkEntity(ctx, name, opts...)
	}
	return results
}

// EnrichGraphWithLinks resolves every named entity and appends one
// enrichment triple per resolved URI to the graph. entityNames maps entity
// keys to the free-text names sent to the sources, entityURIs maps the
// same keys to their graph subjects. An entity missing from entityURIs
// uses its key as the subject IRI. Returns the number of triples added.
//
// Resolved URIs become xsd:anyURI literals on the per-source link
// predicates. The graph is append-only; re-running enrichment adds new
// statements instead of replacing earlier ones.
func (e *EntityLinker) EnrichGraphWithLinks(ctx context.Context, g *rdf.Graph, entityURIs map[string]rdf.IRI, entityNames map[string]string, opts ...Option) int {
	added := 0
	for key, name := range entityNames {
		if name == "" {
			continue
		}
		subject, ok := entityURIs[key]
		if !ok {
			subject = rdf.IRI(key)
		}

		for source, uri := range e.LinkEntity(ctx, name, opts...) {
			if uri == "" {
				continue
			}
			predicate, ok := rdf.LinkPredicate(source)
			if !ok {
				logger.Warn("No link predicate for source, skipping triple", "source", source)
				continue
			}
			g.Add(rdf.Triple{
				Subject:   subject,
				Predicate: predicate,
				Object:    rdf.AnyURILiteral(uri),
			})
			added++
		}
	}

	logger.Info("Graph enrichment finished", "entities", len(entityNames), "triples_added", added)
	return added
}

// LinkToWikidata resolves one entity against Wikidata only.
func (e *EntityLinker) LinkToWikidata(ctx context.Context, entityName, typeHint string) (string, bool) {
	return e.LinkEntityToSource(ctx, wikidata.Source, entityName, typeHint)
}

// LinkToDBpedia resolves one entity against DBpedia only.
func (e *EntityLinker) LinkToDBpedia(ctx context.Context, entityName, typeHint string) (string, bool) {
	return e.LinkEntityToSource(ctx, dbpedia.Source, entityName, typeHint)
}

// LinkToESCO resolves one entity against ESCO only.
func (e *EntityLinker) LinkToESCO(ctx context.Context, entityName, typeHint string) (string, bool) {
	return e.LinkEntityToSource(ctx, esco.Source, entityName, typeHint)
}

// LinkToOpenUniversity resolves one entity against the Open University
// dataset only.
func (e *EntityLinker) LinkToOpenUniversity(ctx context.Context, entityName, typeHint string) (string, bool) {
	return e.LinkEntityToSource(ctx, openuniversity.Source, entityName, typeHint)
}

// LinkToLinkedUniversities resolves one entity against LinkedUniversities
// only.
func (e *EntityLinker) LinkToLinkedUniversities(ctx context.Context, entityName, typeHint string) (string, bool) {
	return e.LinkEntityToSource(ctx, linkeduniversities.Source, entityName, typeHint)
}
