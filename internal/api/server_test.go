package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"agencyui/internal/domain"
	"agencyui/internal/infra/agencystore"
	"agencyui/internal/infra/catalog"
)

type staticCatalog struct {
	catalog domain.Catalog
}

func (s staticCatalog) Snapshot() domain.Catalog {
	return s.catalog.Clone()
}

func newTestServer(t *testing.T) (*Server, *agencystore.Store) {
	t.Helper()
	store, err := agencystore.Open(filepath.Join(t.TempDir(), "agencies.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	srv := NewServer(Options{
		Catalog: staticCatalog{catalog: catalog.Defaults()},
		Store:   store,
	})
	return srv, store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutesRegistered(t *testing.T) {
	srv, _ := newTestServer(t)
	router, ok := srv.Handler().(chi.Router)
	require.True(t, ok)

	var routes []string
	err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, method+" "+route)
		return nil
	})
	require.NoError(t, err)
	sort.Strings(routes)
	require.Equal(t, []string{
		"GET /api/agencies",
		"GET /api/agencies/{id}",
		"GET /api/components",
		"POST /api/create_agency",
	}, routes)
}

func TestComponents(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Handler(), http.MethodGet, "/api/components", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"agents":["Agent1","Agent2","Agent3"],"tools":["Tool1","Tool2","Tool3"]}`, rec.Body.String())
}

func TestCreateAgencyEchoesConfig(t *testing.T) {
	srv, store := newTestServer(t)
	body := `{"items":[{"name":"A1","kind":"agent"},{"name":"T1","kind":"tool"},{"name":"A1","kind":"agent"}]}`

	rec := do(t, srv.Handler(), http.MethodPost, "/api/create_agency", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp createAgencyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Agency created successfully", resp.Message)
	require.JSONEq(t, body, string(resp.Config))
	require.NotEmpty(t, resp.ID)

	agency, err := store.Get(resp.ID)
	require.NoError(t, err)
	require.Equal(t, domain.Composition{
		{Name: "A1", Kind: domain.KindAgent},
		{Name: "T1", Kind: domain.KindTool},
		{Name: "A1", Kind: domain.KindAgent},
	}, agency.Items)
}

func TestCreateAgencyRejectsBadShape(t *testing.T) {
	srv, store := newTestServer(t)
	for _, body := range []string{
		`not json`,
		`{}`,
		`{"items":"A1"}`,
		`{"items":[{"name":"A1"}]}`,
	} {
		rec := do(t, srv.Handler(), http.MethodPost, "/api/create_agency", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		require.Contains(t, rec.Body.String(), `"INVALID_ARGUMENT"`)
	}
	list, err := store.List()
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestCreateAgencyAcceptsEmptyItems(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Handler(), http.MethodPost, "/api/create_agency", `{"items":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAgenciesListAndGet(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/api/agencies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"agencies":[]}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/create_agency", `{"items":[{"name":"X","kind":"tool"}]}`)
	var created createAgencyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = do(t, h, http.MethodGet, "/api/agencies", "")
	var list struct {
		Agencies []domain.Agency `json:"agencies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Agencies, 1)
	require.Equal(t, created.ID, list.Agencies[0].ID)

	rec = do(t, h, http.MethodGet, "/api/agencies/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/agencies/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":{"code":"NOT_FOUND","message":"agency not found"}}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/create_agency", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestComponentsETag(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	first := do(t, h, http.MethodGet, domain.ComponentsPath, "")
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, domain.ComponentsPath, nil)
	req.Header.Set("If-None-Match", etag)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)
	require.Zero(t, rec.Body.Len())
}
