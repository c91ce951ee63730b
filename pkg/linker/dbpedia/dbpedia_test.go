package dbpedia

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gkf-project/gkf/backend/pkg/linker"
)

func newTestLinker(t *testing.T, handler http.HandlerFunc) *Linker {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	l, err := New(linker.Config{Endpoint: server.URL})
	require.NoError(t, err)
	return l
}

func TestLinkReturnsResourceURI(t *testing.T) {
	l := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Python", r.URL.Query().Get("query"))
		w.Write([]byte(`{"docs":[{
			"resource":["http://dbpedia.org/resource/Python_(programming_language)"],
			"label":["Python (programming language)"]
		}]}`))
	})

	uri, ok := l.Link(context.Background(), "Python", "")
	require.True(t, ok)
	assert.Equal(t, "http://dbpedia.org/resource/Python_(programming_language)", uri)
}

func TestLinkPrefersExactLabel(t *testing.T) {
	l := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"docs":[
			{"resource":["http://dbpedia.org/resource/Gopher_(animal)"],"label":["<B>Gopher</B> (animal)"]},
			{"resource":["http://dbpedia.org/resource/Gopher"],"label":["<B>Gopher</B>"]}
		]}`))
	})

	uri, ok := l.Link(context.Background(), "Gopher", "")
	require.True(t, ok)
	assert.Equal(t, "http://dbpedia.org/resource/Gopher", uri, "highlight markup must not defeat the exact match")
}

func TestLinkTypeFilterForwarded(t *testing.T) {
	l := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Language", r.URL.Query().Get("typeName"))
		w.Write([]byte(`{"docs":[]}`))
	})

	_, ok := l.Link(context.Background(), "Python", "Language")
	assert.False(t, ok)
}

func TestLinkEmptyNameSkipsRequest(t *testing.T) {
	requests := 0
	l := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	_, ok := l.Link(context.Background(), "", "")
	assert.False(t, ok)
	assert.Equal(t, 0, requests)
}

func TestFlexStringsAcceptsBothShapes(t *testing.T) {
	var doc lookupDoc
	err := json.Unmarshal([]byte(`{"resource":"http://dbpedia.org/resource/Go","label":["Go"]}`), &doc)
	require.NoError(t, err)
	assert.Equal(t, flexStrings{"http://dbpedia.org/resource/Go"}, doc.Resource)
	assert.Equal(t, flexStrings{"Go"}, doc.Label)

	err = json.Unmarshal([]byte(`{"resource":42}`), &doc)
	assert.Error(t, err)
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "Gopher", stripMarkup("<B>Gopher</B>"))
	assert.Equal(t, "Go language", stripMarkup(" <B>Go</B> language "))
	assert.Equal(t, "plain", stripMarkup("plain"))
}

func TestEntityInfoRejectsForeignURIs(t *testing.T) {
	l, err := New(linker.Config{})
	require.NoError(t, err)

	_, err = l.EntityInfo(context.Background(), "http://example.org/not-dbpedia")
	assert.Error(t, err)
}
