package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gkf-project/gkf/backend/internal/server/middleware"
	"github.com/gkf-project/gkf/backend/pkg/linker"
	"github.com/gkf-project/gkf/backend/pkg/linking"
	"github.com/gkf-project/gkf/backend/pkg/rdf"
)

type stubResolver struct {
	name string
	uri  string
}

func (s *stubResolver) SourceName() string {
	return s.name
}

func (s *stubResolver) Link(ctx context.Context, entityName, entityType string) (string, bool) {
	if s.uri == "" {
		return "", false
	}
	return s.uri, true
}

func (s *stubResolver) BatchLink(ctx context.Context, entityNames []string) map[string]string {
	return linker.BatchLink(ctx, s, entityNames)
}

func (s *stubResolver) ValidateURI(candidate string) bool {
	return linker.ValidURI(candidate)
}

func (s *stubResolver) Metadata() linker.Metadata {
	return linker.Metadata{Source: s.name, Domain: "test", Transport: linker.TransportRESTSearch}
}

type fakeStore struct {
	count    int
	failWith error
}

func (f *fakeStore) InsertGraph(ctx context.Context, g *rdf.Graph) error {
	return f.failWith
}

func (f *fakeStore) Count(ctx context.Context) (int, error) {
	return f.count, f.failWith
}

func (f *fakeStore) Ping(ctx context.Context) error {
	return f.failWith
}

type testValidator struct {
	validator *validator.Validate
}

func (tv *testValidator) Validate(i any) error {
	return tv.validator.Struct(i)
}

func newTestContext(t *testing.T, method, path, body string, app *middleware.App) (*middleware.AppContext, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return &middleware.AppContext{Context: c, App: app}, rec
}

func newTestApp(t *testing.T, stubs ...*stubResolver) *middleware.App {
	t.Helper()
	registry := linker.NewRegistry()
	for _, stub := range stubs {
		require.NoError(t, registry.RegisterInstance(stub.name, stub))
	}
	return &middleware.App{Linker: linking.NewEntityLinker(registry)}
}

func TestLinkEntityHandler(t *testing.T) {
	app := newTestApp(t,
		&stubResolver{name: "wikidata", uri: "http://www.wikidata.org/entity/Q28865"},
		&stubResolver{name: "esco"},
	)

	c, rec := newTestContext(t, http.MethodPost, "/api/link", `{"name":"Python"}`, app)
	require.NoError(t, LinkEntityHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Entity string            `json:"entity"`
		Links  map[string]string `json:"links"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Python", resp.Entity)
	assert.Equal(t, "http://www.wikidata.org/entity/Q28865", resp.Links["wikidata"])
	assert.Equal(t, "", resp.Links["esco"])
}

func TestLinkEntityHandlerRequiresName(t *testing.T) {
	app := newTestApp(t)

	c, rec := newTestContext(t, http.MethodPost, "/api/link", `{"type_hint":"skill"}`, app)
	require.NoError(t, LinkEntityHandler(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchLinkHandler(t *testing.T) {
	app := newTestApp(t, &stubResolver{name: "esco", uri: "http://data.europa.eu/esco/skill/1"})

	c, rec := newTestContext(t, http.MethodPost, "/api/link/batch", `{"names":["java","go"]}`, app)
	require.NoError(t, BatchLinkHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results map[string]map[string]string `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, 2)
	assert.Equal(t, "http://data.europa.eu/esco/skill/1", resp.Results["java"]["esco"])
}

func TestBatchLinkHandlerRejectsEmptyNames(t *testing.T) {
	app := newTestApp(t)

	c, rec := newTestContext(t, http.MethodPost, "/api/link/batch", `{"names":[]}`, app)
	require.NoError(t, BatchLinkHandler(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSourcesHandler(t *testing.T) {
	app := newTestApp(t,
		&stubResolver{name: "wikidata"},
		&stubResolver{name: "dbpedia"},
	)

	c, rec := newTestContext(t, http.MethodGet, "/api/sources", "", app)
	require.NoError(t, GetSourcesHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Sources []linker.Metadata `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Sources, 2)
	assert.Equal(t, "dbpedia", resp.Sources[0].Source)
	assert.Equal(t, "wikidata", resp.Sources[1].Source)
}

func TestGetRegistryInfoHandler(t *testing.T) {
	app := newTestApp(t, &stubResolver{name: "wikidata"})

	c, rec := newTestContext(t, http.MethodGet, "/api/sources/info", "", app)
	require.NoError(t, GetRegistryInfoHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Info linker.Info `json:"info"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Info.TotalLinkers)
}

func TestEnrichGraphHandler(t *testing.T) {
	app := newTestApp(t, &stubResolver{name: "wikidata", uri: "http://www.wikidata.org/entity/Q28865"})

	body := `{"entities":[{"uri":"http://gkf.org/data/Skill/python","name":"Python"}]}`
	c, rec := newTestContext(t, http.MethodPost, "/api/enrich", body, app)
	require.NoError(t, EnrichGraphHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TriplesAdded int    `json:"triples_added"`
		NTriples     string `json:"ntriples"`
		Persisted    bool   `json:"persisted"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TriplesAdded)
	assert.Contains(t, resp.NTriples, "<http://gkf.org/data/Skill/python>")
	assert.False(t, resp.Persisted)
}

func TestEnrichGraphHandlerPersistWithoutStore(t *testing.T) {
	app := newTestApp(t, &stubResolver{name: "wikidata", uri: "http://www.wikidata.org/entity/Q1"})

	body := `{"entities":[{"uri":"http://gkf.org/data/Skill/go","name":"Go"}],"persist":true}`
	c, rec := newTestContext(t, http.MethodPost, "/api/enrich", body, app)
	require.NoError(t, EnrichGraphHandler(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCreateLinkJobHandlerWithoutStore(t *testing.T) {
	app := newTestApp(t)

	body := `{"entities":[{"uri":"http://gkf.org/data/Skill/go","name":"Go"}]}`
	c, rec := newTestContext(t, http.MethodPost, "/api/link/jobs", body, app)
	require.NoError(t, CreateLinkJobHandler(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetStoreStatsHandler(t *testing.T) {
	app := newTestApp(t)
	app.Store = &fakeStore{count: 42}

	c, rec := newTestContext(t, http.MethodGet, "/api/store/stats", "", app)
	require.NoError(t, GetStoreStatsHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TripleCount int `json:"triple_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp.TripleCount)
}

func TestGetStoreStatsHandlerWithoutStore(t *testing.T) {
	app := newTestApp(t)

	c, rec := newTestContext(t, http.MethodGet, "/api/store/stats", "", app)
	require.NoError(t, GetStoreStatsHandler(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetStoreStatsHandlerStoreFailure(t *testing.T) {
	app := newTestApp(t)
	app.Store = &fakeStore{failWith: errors.New("store down")}

	c, rec := newTestContext(t, http.MethodGet, "/api/store/stats", "", app)
	require.NoError(t, GetStoreStatsHandler(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
