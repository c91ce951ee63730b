package rdf

// Namespaces used across the GKF knowledge graph.
const (
	GKFNamespace     = "http://gkf.org/ontology/it#"
	DataNamespace    = "http://gkf.org/data/"
	RDFNamespace     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace    = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace     = "http://www.w3.org/2001/XMLSchema#"
	SKOSNamespace    = "http://www.w3.org/2004/02/skos/core#"
	DCTermsNamespace = "http://purl.org/dc/terms/"
)

// XSDAnyURI types literals that carry resolved external URIs.
const XSDAnyURI = IRI(XSDNamespace + "anyURI")

// Link predicates, one per LOD source. The table is fixed: a source key maps
// to exactly one predicate and the mapping is stable across calls.
var linkPredicates = map[string]IRI{
	"wikidata":           IRI(GKFNamespace + "wikidataURI"),
	"dbpedia":            IRI(GKFNamespace + "dbpediaURI"),
	"esco":               IRI(GKFNamespace + "escoURI"),
	"openuniversity":     IRI(GKFNamespace + "openUniversityURI"),
	"linkeduniversities": IRI(GKFNamespace + "linkedUniversitiesURI"),
}

// LinkPredicate returns the enrichment predicate for a source key.
func LinkPredicate(source string) (IRI, bool) {
	predicate, ok := linkPredicates[source]
	return predicate, ok
}

// AnyURILiteral wraps a resolved URI as an xsd:anyURI literal.
func AnyURILiteral(uri string) Literal {
	return Literal{Value: uri, Datatype: XSDAnyURI}
}

// EntityIRI builds a data-namespace IRI for a local entity,
// e.g. EntityIRI("Skill", "python") -> http://gkf.org/data/Skill/python.
func EntityIRI(entityType, id string) IRI {
	return IRI(DataNamespace + entityType + "/" + id)
}
