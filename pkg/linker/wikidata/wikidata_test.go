package wikidata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gkf-project/gkf/backend/pkg/linker"
)

func newTestLinker(t *testing.T, handler http.HandlerFunc) (*Linker, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	l, err := New(linker.Config{Endpoint: server.URL})
	require.NoError(t, err)
	return l, server
}

func TestLinkReturnsEntityURI(t *testing.T) {
	l, _ := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wbsearchentities", r.URL.Query().Get("action"))
		assert.Equal(t, "Python", r.URL.Query().Get("search"))
		w.Write([]byte(`{"search":[{"id":"Q28865","label":"Python","description":"programming language"}]}`))
	})

	uri, ok := l.Link(context.Background(), "Python", "")
	require.True(t, ok)
	assert.Equal(t, "http://www.wikidata.org/entity/Q28865", uri)
}

func TestLinkTypeHintPrefersDescriptionMatch(t *testing.T) {
	l, _ := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"search":[
			{"id":"Q271218","label":"Python","description":"genus of snakes"},
			{"id":"Q28865","label":"Python","description":"programming language"}
		]}`))
	})

	uri, ok := l.Link(context.Background(), "Python", "programming language")
	require.True(t, ok)
	assert.Equal(t, "http://www.wikidata.org/entity/Q28865", uri)
}

func TestLinkExactLabelBeatsFirstResult(t *testing.T) {
	l, _ := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"search":[
			{"id":"Q1","label":"Gopher hole","description":""},
			{"id":"Q2","label":"gopher","description":""}
		]}`))
	})

	uri, ok := l.Link(context.Background(), "Gopher", "")
	require.True(t, ok)
	assert.Equal(t, "http://www.wikidata.org/entity/Q2", uri)
}

func TestLinkFallsBackToFirstResult(t *testing.T) {
	l, _ := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"search":[
			{"id":"Q10","label":"Alpha","description":""},
			{"id":"Q11","label":"Beta","description":""}
		]}`))
	})

	uri, ok := l.Link(context.Background(), "Gamma", "")
	require.True(t, ok)
	assert.Equal(t, "http://www.wikidata.org/entity/Q10", uri)
}

func TestLinkEmptyNameSkipsRequest(t *testing.T) {
	requests := 0
	l, _ := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"search":[]}`))
	})

	uri, ok := l.Link(context.Background(), "   ", "")
	assert.False(t, ok)
	assert.Equal(t, "", uri)
	assert.Equal(t, 0, requests, "blank names must not trigger a lookup")
}

func TestLinkNoMatch(t *testing.T) {
	l, _ := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"search":[]}`))
	})

	uri, ok := l.Link(context.Background(), "zzzzz", "")
	assert.False(t, ok)
	assert.Equal(t, "", uri)
}

func TestLinkServerErrorIsNotFatal(t *testing.T) {
	l, _ := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	uri, ok := l.Link(context.Background(), "Python", "")
	assert.False(t, ok)
	assert.Equal(t, "", uri)
}

func TestEntityDetails(t *testing.T) {
	l, _ := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wbgetentities", r.URL.Query().Get("action"))
		assert.Equal(t, "Q28865", r.URL.Query().Get("ids"))
		w.Write([]byte(`{"entities":{"Q28865":{"id":"Q28865","type":"item"}}}`))
	})

	entity, err := l.EntityDetails(context.Background(), "Q28865")
	require.NoError(t, err)
	assert.Equal(t, "Q28865", entity["id"])
}

func TestEntityRDFUnsupportedFormat(t *testing.T) {
	l, err := New(linker.Config{})
	require.NoError(t, err)

	_, err = l.EntityRDF(context.Background(), "Q28865", "n3")
	assert.Error(t, err)
}

func TestMetadata(t *testing.T) {
	l, err := New(linker.Config{})
	require.NoError(t, err)

	meta := l.Metadata()
	assert.Equal(t, Source, meta.Source)
	assert.Equal(t, linker.TransportRESTSearch, meta.Transport)
	assert.NotEmpty(t, meta.Endpoint)
}
