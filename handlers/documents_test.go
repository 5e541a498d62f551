package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xytext/xytext/internal/actor"
	"github.com/xytext/xytext/internal/config"
	"github.com/xytext/xytext/internal/document/repository"
	"github.com/xytext/xytext/pkg/middleware"
)

type staticResolver map[string]string

func (s staticResolver) Resolve(ctx context.Context, credential string) (string, error) {
	if name, ok := s[credential]; ok {
		return name, nil
	}
	return "", nil
}

func testRouter(t *testing.T, tokens map[string]string) (*gin.Engine, *repository.MemoryRepo) {
	t.Helper()
	repo := repository.NewMemoryRepo()
	return testRouterWithRepo(t, tokens, repo), repo
}

func testRouterWithRepo(t *testing.T, tokens map[string]string, repo repository.Repository) *gin.Engine {
	t.Helper()
	cfg := &config.Config{}
	cfg.Identity.SuperUser = "admin"
	cfg.Identity.TokenCookie = "x_access_token"
	cfg.Server.BaseURL = "http://test.local"

	manager := actor.NewManager(repo, nil)
	t.Cleanup(manager.Close)

	r := gin.New()
	r.Use(middleware.IdentityMiddleware(staticResolver(tokens), cfg.Identity.TokenCookie))
	RegisterSwagger(r)
	New(cfg, manager).Register(r)
	return r
}

func asUser(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "x_access_token", Value: token})
	return req
}

func TestGetMissingDocument(t *testing.T) {
	r, _ := testRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/alice/doc1", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Not Found", w.Body.String())
}

func TestGetDocumentContent(t *testing.T) {
	r, repo := testRouter(t, nil)
	require.NoError(t, repo.Upsert(context.Background(), "/alice/doc1", "# Hello"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/alice/doc1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "# Hello", w.Body.String())
	require.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
}

func TestRootListingSynthesized(t *testing.T) {
	r, repo := testRouter(t, nil)
	require.NoError(t, repo.Upsert(context.Background(), "/alice/notes", "n"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/alice", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "# Root of alice")
	assert.Contains(t, w.Body.String(), "/alice/notes")
	// viewers without admin rights are invited to watch, not edit
	assert.Contains(t, w.Body.String(), "watching")
}

func TestDeleteRequiresAdmin(t *testing.T) {
	tokens := map[string]string{"tok-alice": "alice", "tok-super": "admin"}
	r, repo := testRouter(t, tokens)
	require.NoError(t, repo.Upsert(context.Background(), "/alice/doc1", "content"))

	// anonymous caller is not an admin of /alice
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/alice/doc1", nil))
	require.Equal(t, http.StatusForbidden, w.Code)

	// another user is not an admin of /alice either
	w = httptest.NewRecorder()
	r.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodDelete, "/alice/doc1", nil), "tok-bob"))
	require.Equal(t, http.StatusForbidden, w.Code)

	// the namespace owner may delete
	w = httptest.NewRecorder()
	r.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodDelete, "/alice/doc1", nil), "tok-alice"))
	require.Equal(t, http.StatusOK, w.Code)
	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, true, res["success"])

	// the document is gone
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/alice/doc1", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	// deleting again reports not found
	w = httptest.NewRecorder()
	r.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodDelete, "/alice/doc1", nil), "tok-alice"))
	require.Equal(t, http.StatusNotFound, w.Code)
}

// brokenDeleteRepo fails every delete while the rest of the store works.
type brokenDeleteRepo struct {
	repository.Repository
}

func (brokenDeleteRepo) Delete(ctx context.Context, path string) (bool, error) {
	return false, errors.New("storage down")
}

func TestDeleteStorageFailureReturns500(t *testing.T) {
	mem := repository.NewMemoryRepo()
	require.NoError(t, mem.Upsert(context.Background(), "/alice/doc1", "content"))
	r := testRouterWithRepo(t, map[string]string{"tok-alice": "alice"}, brokenDeleteRepo{Repository: mem})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodDelete, "/alice/doc1", nil), "tok-alice"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, "storage failure", res["error"])
}

func TestSuperUserIsAdminEverywhere(t *testing.T) {
	tokens := map[string]string{"tok-super": "admin"}
	r, repo := testRouter(t, tokens)
	require.NoError(t, repo.Upsert(context.Background(), "/carol/doc", "x"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodDelete, "/carol/doc", nil), "tok-super"))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAnonymousNamespaceIsWritableByAnyone(t *testing.T) {
	r, repo := testRouter(t, nil)
	require.NoError(t, repo.Upsert(context.Background(), "/anonymous/scratch", "x"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/anonymous/scratch", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestListFiles(t *testing.T) {
	r, repo := testRouter(t, nil)
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, "/alice/a", "1"))
	require.NoError(t, repo.Upsert(ctx, "/alice/b", "2"))
	require.NoError(t, repo.Upsert(ctx, "/bob/c", "3"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/files/alice", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	require.Equal(t, "/alice/a", list[0]["path"])
	require.NotNil(t, list[0]["created_at"])
	require.NotNil(t, list[0]["updated_at"])
}

func TestLlmsText(t *testing.T) {
	r, repo := testRouter(t, nil)
	require.NoError(t, repo.Upsert(context.Background(), "/alice/doc1", "c"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/alice/llms.txt", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "# alice's Files")
	assert.Contains(t, w.Body.String(), "http://test.local/alice/doc1")
}

func TestSwaggerServed(t *testing.T) {
	r, _ := testRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Equal(t, "3.0.0", doc["openapi"])
}
