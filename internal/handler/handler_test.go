package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"pagetree/internal/repository/fixtures"
	"pagetree/internal/repository/memory"
	"pagetree/internal/schema"
	service "pagetree/internal/service/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRecords = `
pagina:
  - {id: 1, documentId: doc-home, slug: home, publishedAt: 2024-01-05T10:00:00Z, titolo: Home, layout: landing}
  - {id: 2, documentId: doc-about, slug: chi-siamo, publishedAt: 2024-01-09T10:00:00Z, titolo: Chi siamo, pagina: 1}
  - {id: 3, documentId: doc-team, slug: team, publishedAt: 2024-02-01T08:00:00Z, titolo: Team, pagina: 2}
  - {id: 4, documentId: doc-contacts, slug: contatti, publishedAt: 2024-03-01T08:00:00Z, titolo: Contatti, pagina: 1}
news:
  - {id: 1, slug: apertura, publishedAt: 2024-01-05T10:00:00Z, title: Apertura}
  - {id: 2, slug: evento, publishedAt: 2024-01-09T15:00:00Z, title: Evento}
  - {id: 3, slug: bilancio, publishedAt: 2024-02-01T08:00:00Z, title: Bilancio}
`

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

// newTestServer wires every handler over a memory store. Admin routes
// require an X-Admin header so the hook itself is exercised.
func newTestServer(t *testing.T, pinger Pinger) *httptest.Server {
	t.Helper()
	srv, _ := newTestServerWithStore(t, pinger)
	return srv
}

func newTestServerWithStore(t *testing.T, pinger Pinger) (*httptest.Server, *memory.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry, err := schema.NewRegistry()
	require.NoError(t, err)

	store := memory.NewStore()
	_, err = fixtures.Load(context.Background(), store, registry, []byte(testRecords))
	require.NoError(t, err)
	if pinger == nil {
		pinger = store
	}

	opts := service.Options{MaxDepth: 8, Concurrency: 2, Locale: "it"}
	admin := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Admin") == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	mux := http.NewServeMux()
	RegisterRoutes(mux, Handlers{
		Health: NewHealthHandler(pinger, logger),
		Content: NewContentHandler(
			service.NewTreeService(registry, store, opts, logger),
			service.NewArchiveService(registry, store, opts, logger),
			"public, max-age=60",
			logger,
		),
		Forest:      NewForestHandler(service.NewForestService(registry, store, opts, logger), logger),
		Publication: NewPublicationHandler(service.NewPublicationService(registry, store, logger), logger),
	}, admin)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, method, url string, admin bool) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	if admin {
		req.Header.Set("X-Admin", "1")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeData[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env.Data
}

type slugged struct {
	Slug string `json:"slug"`
}

func slugsOf(items []slugged) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Slug
	}
	return out
}

func TestContentRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name      string
		path      string
		wantSlugs []string
	}{
		{"ancestor chain", "/api/pagina/team/tree", []string{"home", "chi-siamo", "team"}},
		{"root chain", "/api/pagina/home/tree", []string{"home"}},
		{"children", "/api/pagina/home/children", []string{"chi-siamo", "contatti"}},
		{"leaf children", "/api/pagina/team/children", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodGet, srv.URL+tt.path, false)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.Equal(t, tt.wantSlugs, slugsOf(decodeData[[]slugged](t, resp)))
		})
	}
}

func TestContentRoutes_Errors(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"unknown slug", "/api/pagina/nessuna/tree", http.StatusNotFound},
		{"unknown kind", "/api/evento/home/tree", http.StatusBadRequest},
		{"bad slug", "/api/pagina/home%20page/children", http.StatusBadRequest},
		{"non numeric depth", "/api/pagina/home/subtree?maxDepth=due", http.StatusBadRequest},
		{"negative depth", "/api/pagina/home/subtree?maxDepth=-1", http.StatusBadRequest},
		{"depth above cap", "/api/pagina/home/subtree?maxDepth=99", http.StatusBadRequest},
		{"bad archive bound", "/api/news/archive?from=ieri", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodGet, srv.URL+tt.path, false)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
		})
	}
}

func TestContentRoutes_StoreFailure(t *testing.T) {
	srv, store := newTestServerWithStore(t, nil)
	store.FailWith(errors.New("pq: relation dev_pagine is locked"))

	paths := []string{
		"/api/pagina/team/tree",
		"/api/pagina/home/children",
		"/api/pagina/home/subtree",
		"/api/news/archive",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			resp := do(t, http.MethodGet, srv.URL+path, false)
			require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), "internal server error")
			assert.NotContains(t, string(body), "dev_pagine")
			assert.NotContains(t, string(body), `"data"`)
		})
	}

	forest := do(t, http.MethodGet, srv.URL+"/tree-view/tree?contentType=pagina", true)
	assert.Equal(t, http.StatusInternalServerError, forest.StatusCode)
}

func TestConfigurationErrorExtras(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := do(t, http.MethodGet, srv.URL+"/api/evento/home/tree", false)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var problem map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&problem))
	assert.Equal(t, "evento", problem["contentType"])
	assert.EqualValues(t, 400, problem["status"])
}

func TestGetSubtree(t *testing.T) {
	srv := newTestServer(t, nil)

	type node struct {
		Slug     string `json:"slug"`
		Layout   string `json:"layout"`
		Title    string `json:"title"`
		Children []node `json:"children"`
	}

	resp := do(t, http.MethodGet, srv.URL+"/api/pagina/home/subtree?maxDepth=1", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	root := decodeData[node](t, resp)
	assert.Equal(t, "home", root.Slug)
	assert.Equal(t, "landing", root.Layout)
	assert.Equal(t, "Home", root.Title)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "chi-siamo", root.Children[0].Slug)
	assert.Empty(t, root.Children[0].Children)

	resp = do(t, http.MethodGet, srv.URL+"/api/pagina/home/subtree", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	root = decodeData[node](t, resp)
	require.Len(t, root.Children[0].Children, 1)
	assert.Equal(t, "team", root.Children[0].Children[0].Slug)
}

func TestGetArchive(t *testing.T) {
	srv := newTestServer(t, nil)

	type month struct {
		Month int `json:"month"`
		Count int `json:"count"`
	}
	type year struct {
		Year   int     `json:"year"`
		Count  int     `json:"count"`
		Months []month `json:"months"`
	}

	resp := do(t, http.MethodGet, srv.URL+"/api/news/archive", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=60", resp.Header.Get("Cache-Control"))

	years := decodeData[[]year](t, resp)
	require.Len(t, years, 1)
	assert.Equal(t, 2024, years[0].Year)
	assert.Equal(t, 3, years[0].Count)
	assert.Equal(t, []month{{Month: 1, Count: 2}, {Month: 2, Count: 1}}, years[0].Months)

	resp = do(t, http.MethodGet, srv.URL+"/api/news/archive?from=2024-02-01", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	years = decodeData[[]year](t, resp)
	require.Len(t, years, 1)
	assert.Equal(t, 1, years[0].Count)
}

func TestForestRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	type treeNode struct {
		ID          int64      `json:"id"`
		Label       string     `json:"label"`
		Parent      *string    `json:"parent"`
		HasChildren *bool      `json:"hasChildren"`
		Children    []treeNode `json:"children"`
	}

	t.Run("requires admin", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/tree-view/tree?contentType=pagina", false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("eager", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/tree-view/tree?contentType=api::pagina.pagina", true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		roots := decodeData[[]treeNode](t, resp)
		require.Len(t, roots, 1)
		assert.Equal(t, "Home", roots[0].Label)
		assert.Nil(t, roots[0].Parent)
		require.Len(t, roots[0].Children, 2)
		assert.Equal(t, "Chi siamo", roots[0].Children[0].Label)
		assert.Equal(t, "doc-home", *roots[0].Children[0].Parent)
	})

	t.Run("lazy", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/tree-view/tree?contentType=pagina&lazy=true", true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		roots := decodeData[[]treeNode](t, resp)
		require.Len(t, roots, 1)
		require.NotNil(t, roots[0].HasChildren)
		assert.True(t, *roots[0].HasChildren)
		assert.Empty(t, roots[0].Children)
	})

	t.Run("children", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/tree-view/tree/children/doc-about?contentType=pagina", true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		children := decodeData[[]treeNode](t, resp)
		require.Len(t, children, 1)
		assert.Equal(t, "Team", children[0].Label)
		require.NotNil(t, children[0].HasChildren)
		assert.False(t, *children[0].HasChildren)
	})

	t.Run("bad lazy flag", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/tree-view/tree?contentType=pagina&lazy=forse", true)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing content type", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/tree-view/tree", true)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUnpublish(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := do(t, http.MethodPost, srv.URL+"/api/pagina/doc-contacts/unpublish", false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/pagina/doc-contacts/unpublish", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeData[struct {
		DocumentID string `json:"documentId"`
		Entries    int    `json:"entries"`
	}](t, resp)
	assert.Equal(t, "doc-contacts", result.DocumentID)
	assert.Equal(t, 1, result.Entries)

	resp = do(t, http.MethodGet, srv.URL+"/api/pagina/home/children", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"chi-siamo"}, slugsOf(decodeData[[]slugged](t, resp)))

	resp = do(t, http.MethodPost, srv.URL+"/api/pagina/doc-missing/unpublish", true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/pagina/doc-contacts/unpublish", true)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestGetHealth(t *testing.T) {
	resp := do(t, http.MethodGet, newTestServer(t, nil).URL+"/health", false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, newTestServer(t, failingPinger{}).URL+"/health", false)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
