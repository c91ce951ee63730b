// Package rdf provides the in-memory triple buffer that ingestion and
// enrichment write into before the graph is published to a triple store.
package rdf

import (
	"strings"
	"sync"
)

// Term is an RDF object position value: an IRI or a literal.
type Term interface {
	// NTriples renders the term in N-Triples syntax.
	NTriples() string
}

// IRI is an absolute resource identifier.
type IRI string

// NTriples renders the IRI as <iri>.
func (i IRI) NTriples() string {
	return "<" + string(i) + ">"
}

// Literal is a typed or language-tagged literal value.
type Literal struct {
	Value    string
	Datatype IRI
	Lang     string
}

// NTriples renders the literal with its escaped lexical form and, when set,
// its language tag or datatype.
func (l Literal) NTriples() string {
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(escapeLiteral(l.Value))
	b.WriteByte('"')
	if l.Lang != "" {
		b.WriteByte('@')
		b.WriteString(l.Lang)
	} else if l.Datatype != "" {
		b.WriteString("^^")
		b.WriteString(l.Datatype.NTriples())
	}
	return b.String()
}

func escapeLiteral(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Triple is a single (subject, predicate, object) statement.
type Triple struct {
	Subject   IRI
	Predicate IRI
	Object    Term
}

// NTriples renders the statement as one N-Triples line without the newline.
func (t Triple) NTriples() string {
	return t.Subject.NTriples() + " " + t.Predicate.NTriples() + " " + t.Object.NTriples() + " ."
}

// Graph is an append-only triple buffer with a namespace prefix table.
// Adding never deduplicates: repeated enrichment runs accumulate statements,
// which is the documented behavior, not a defect.
type Graph struct {
	mu       sync.Mutex
	triples  []Triple
	prefixes map[string]string
}

// NewGraph returns an empty graph with the GKF default prefixes bound.
func NewGraph() *Graph {
	g := &Graph{
		prefixes: make(map[string]string),
	}
	g.Bind("gkf", GKFNamespace)
	g.Bind("data", DataNamespace)
	g.Bind("rdf", RDFNamespace)
	g.Bind("rdfs", RDFSNamespace)
	g.Bind("xsd", XSDNamespace)
	g.Bind("skos", SKOSNamespace)
	g.Bind("dc", DCTermsNamespace)
	return g
}

// Bind associates a prefix with a namespace IRI.
func (g *Graph) Bind(prefix, namespace string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prefixes[prefix] = namespace
}

// Prefixes returns a copy of the bound prefix table.
func (g *Graph) Prefixes() map[string]string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]string, len(g.prefixes))
	for prefix, namespace := range g.prefixes {
		out[prefix] = namespace
	}
	return out
}

// Add appends one statement to the graph.
func (g *Graph) Add(t Triple) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.triples = append(g.triples, t)
}

// AddAll appends every given statement to the graph.
func (g *Graph) AddAll(triples ...Triple) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.triples = append(g.triples, triples...)
}

// Len returns the number of statements in the graph.
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.triples)
}

// Triples returns a copy of the buffered statements.
func (g *Graph) Triples() []Triple {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Contains reports whether the exact statement is already buffered.
func (g *Graph) Contains(t Triple) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, existing := range g.triples {
		if existing == t {
			return true
		}
	}
	return false
}

// NTriples serializes the graph, one statement per line.
func (g *Graph) NTriples() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var b strings.Builder
	for _, t := range g.triples {
		b.WriteString(t.NTriples())
		b.WriteByte('\n')
	}
	return b.String()
}
