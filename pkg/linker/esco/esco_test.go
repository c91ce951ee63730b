package esco

import (
	"context"
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

func TestLinkReturnsSkillURI(t *testing.T) {
	l := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "programming", r.URL.Query().Get("text"))
		assert.Equal(t, "skill", r.URL.Query().Get("type"))
		w.Write([]byte(`{"_embedded":{"results":[
			{"uri":"http://data.europa.eu/esco/skill/abc","title":"programming"}
		]}}`))
	})

	uri, ok := l.Link(context.Background(), "programming", "skill")
	require.True(t, ok)
	assert.Equal(t, "http://data.europa.eu/esco/skill/abc", uri)
}

func TestLinkTypeHintMapping(t *testing.T) {
	var gotType string
	l := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		gotType = r.URL.Query().Get("type")
		w.Write([]byte(`{"_embedded":{"results":[]}}`))
	})

	l.Link(context.Background(), "developer", "job")
	assert.Equal(t, "occupation", gotType, "job maps to the occupation taxonomy type")

	l.Link(context.Background(), "teamwork", "competence")
	assert.Equal(t, "skill", gotType)

	l.Link(context.Background(), "anything", "building")
	assert.Equal(t, "", gotType, "unknown hints search unfiltered")
}

func TestLinkPrefersExactTitle(t *testing.T) {
	l := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"_embedded":{"results":[
			{"uri":"http://data.europa.eu/esco/skill/1","title":"Java programming"},
			{"uri":"http://data.europa.eu/esco/skill/2","title":"Java"}
		]}}`))
	})

	uri, ok := l.Link(context.Background(), "java", "")
	require.True(t, ok)
	assert.Equal(t, "http://data.europa.eu/esco/skill/2", uri)
}

func TestLinkEmptyNameSkipsRequest(t *testing.T) {
	requests := 0
	l := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	_, ok := l.Link(context.Background(), " ", "skill")
	assert.False(t, ok)
	assert.Equal(t, 0, requests)
}

func TestGetSkillDetails(t *testing.T) {
	l := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/resource/skill/abc", r.URL.Path)
		w.Write([]byte(`{"uri":"http://data.europa.eu/esco/skill/abc","title":"programming","skillType":"skill/competence"}`))
	})

	details, err := l.GetSkillDetails(context.Background(), "http://data.europa.eu/esco/skill/abc")
	require.NoError(t, err)
	assert.Equal(t, "programming", details.Title)
	assert.Equal(t, "skill/competence", details.SkillType)
}

func TestGetRelatedSkills(t *testing.T) {
	l := newTestLinker(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/resource/occupation/xyz/skills", r.URL.Path)
		w.Write([]byte(`{"_embedded":{"skills":[
			{"uri":"http://data.europa.eu/esco/skill/1","title":"one"},
			{"uri":"","title":"broken"},
			{"uri":"http://data.europa.eu/esco/skill/2","title":"two"}
		]}}`))
	})

	uris, err := l.GetRelatedSkills(context.Background(), "http://data.europa.eu/esco/occupation/xyz")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://data.europa.eu/esco/skill/1", "http://data.europa.eu/esco/skill/2"}, uris)
}

func TestLastSegment(t *testing.T) {
	assert.Equal(t, "abc", lastSegment("http://data.europa.eu/esco/skill/abc"))
	assert.Equal(t, "plain", lastSegment("plain"))
}
