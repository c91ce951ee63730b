// Package store defines the triple store contract the enrichment pipeline
// publishes graphs to.
package store

import (
	"context"

	"github.com/gkf-project/gkf/backend/pkg/rdf"
)

// TripleStore persists RDF graphs.
type TripleStore interface {
	// InsertGraph writes every statement of the graph into the store.
	InsertGraph(ctx context.Context, g *rdf.Graph) error
	// Count returns the number of triples in the store.
	Count(ctx context.Context) (int, error)
	// Ping verifies the store is reachable and answering queries.
	Ping(ctx context.Context) error
}
