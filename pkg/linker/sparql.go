package linker

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// BindingValue is one bound variable in a SPARQL result row.
type BindingValue struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// Binding maps variable names to their bound values for one result row.
type Binding map[string]BindingValue

// Value returns the bound value for a variable, or "" when unbound.
func (b Binding) Value(name string) string {
	return b[name].Value
}

type sparqlResponse struct {
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// SPARQLClient issues SELECT queries against a public SPARQL endpoint and
// parses application/sparql-results+json responses.
type SPARQLClient struct {
	endpoint string
	rest     *RESTClient
}

// NewSPARQLClient builds a client for one endpoint, sharing the REST
// transport's timeout and throttling behavior.
func NewSPARQLClient(endpoint string, cfg Config) *SPARQLClient {
	return &SPARQLClient{
		endpoint: endpoint,
		rest:     NewRESTClient(cfg),
	}
}

// Endpoint returns the configured SPARQL endpoint URL.
func (c *SPARQLClient) Endpoint() string {
	return c.endpoint
}

// Select executes a SPARQL SELECT query and returns the result bindings.
func (c *SPARQLClient) Select(ctx context.Context, query string) ([]Binding, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("format", "json")
	headers := map[string]string{
		"Accept": "application/sparql-results+json",
	}

	var parsed sparqlResponse
	if err := c.rest.GetJSON(ctx, c.endpoint, params, headers, &parsed); err != nil {
		return nil, fmt.Errorf("sparql select failed: %w", err)
	}
	return parsed.Results.Bindings, nil
}

// ValidIRIRef reports whether s is safe to embed between <> delimiters in
// a SPARQL query. On top of being a well-formed absolute URI, IRIREF
// forbids angle brackets, quotes, braces, backslashes and whitespace; a
// value containing any of those would escape the delimiters.
func ValidIRIRef(s string) bool {
	if !ValidURI(s) {
		return false
	}
	if strings.ContainsAny(s, "<>\"{}|^`\\") {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool { return r <= ' ' }) == -1
}

// EscapeLiteral escapes an untrusted string for use inside a quoted SPARQL
// literal. Query builders must pass every user-supplied value through here;
// raw concatenation into the query body is an injection hole.
func EscapeLiteral(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"'", `\'`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return replacer.Replace(s)
}
