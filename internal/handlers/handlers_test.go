package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/credentials"
	"catalog-admin/internal/dashboard"
	"catalog-admin/internal/models"
	"catalog-admin/internal/pages"
	"catalog-admin/internal/repository"
	"catalog-admin/internal/services"
	"catalog-admin/internal/utils"
)

// genreBackend serves /v1/admin/genres and records what it saw.
type genreBackend struct {
	mu     sync.Mutex
	rows   []map[string]any
	auth   []string
	posted []map[string]any
}

func (b *genreBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.auth = append(b.auth, r.Header.Get("Authorization"))
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": b.rows, "total": len(b.rows), "page": 1, "limit": 10, "totalPages": 1,
		})
	case http.MethodPost:
		body := map[string]any{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.posted = append(b.posted, body)
		body["id"] = fmt.Sprintf("new-%d", len(b.posted))
		b.rows = append([]map[string]any{body}, b.rows...)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *genreBackend) lastPost() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.posted) == 0 {
		return nil
	}
	return b.posted[len(b.posted)-1]
}

func (b *genreBackend) lastAuth() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.auth) == 0 {
		return ""
	}
	return b.auth[len(b.auth)-1]
}

type stubStore struct {
	presigned []string
	deleted   []string
}

func (s *stubStore) Presign(_ context.Context, category, filename string) (*services.PresignedUpload, error) {
	s.presigned = append(s.presigned, category+"/"+filename)
	return &services.PresignedUpload{
		UploadURL: "http://minio.local/bucket/" + category + "/" + filename + "?X-Amz-Signature=abc",
		PublicURL: "http://minio.local/bucket/" + category + "/" + filename,
		ObjectKey: category + "/" + filename,
	}, nil
}

func (s *stubStore) Delete(_ context.Context, ref string) error {
	s.deleted = append(s.deleted, ref)
	return nil
}

type stubAudit struct {
	err     error
	entries []models.AuditEntry
}

func (s *stubAudit) List(context.Context, int, int, repository.AuditFilter) ([]models.AuditEntry, int64, error) {
	return s.entries, int64(len(s.entries)), s.err
}

type testEnv struct {
	app     *fiber.App
	backend *genreBackend
	audit   *stubAudit
	store   *stubStore
	ws      *dashboard.Workspaces
}

func quietLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := quietLogger()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	sessionStore := credentials.NewSessionStore(rdb, time.Hour)

	backend := &genreBackend{rows: []map[string]any{
		{"id": "g1", "genreName": "Drama", "genreCode": "DRM", "isActive": true},
	}}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	workspaces := dashboard.NewWorkspaces(time.Hour, func(sessionID string) dashboard.ScreenFactory {
		client := apiclient.New(srv.URL+"/v1", sessionStore.For(sessionID), apiclient.WithLogger(logger))
		return &pages.Factory{Catalog: apiclient.NewCatalog(client), Limit: 10, Logger: logger}
	}, logger)

	nav, err := dashboard.LoadNavigation()
	require.NoError(t, err)
	renderer, err := NewRenderer(logger)
	require.NoError(t, err)

	sessions := NewSessions(sessionStore, workspaces, SessionConfig{CookieName: "sid", TTL: time.Hour}, logger)
	console := NewConsoleHandler(nav, renderer, logger)
	audit := &stubAudit{}
	store := &stubStore{}
	auth := NewAuthHandler(sessions, renderer, logger)
	auditHandler := NewAuditHandler(audit, console, logger)
	upload := NewUploadHandler(store, nav, logger)

	app := fiber.New(fiber.Config{ErrorHandler: utils.NewErrorHandler(logger, console.ErrorPage)})
	app.Get("/login", auth.LoginPage)
	app.Post("/login", auth.Login)
	app.Post("/logout", auth.Logout)
	app.Get("/", sessions.Require, console.Home)
	app.Get("/audit", sessions.Require, auditHandler.Page)
	app.Get("/resources/:resource", sessions.Require, console.Resource)
	app.Post("/resources/:resource/actions/:action", sessions.Require, console.Action)
	app.Get("/api/v1/audit", sessions.Require, auditHandler.ListAudit)
	app.Get("/api/v1/uploads/presign", sessions.Require, upload.GetPresignedURL)
	app.Delete("/api/v1/uploads", sessions.Require, upload.DeleteUpload)

	return &testEnv{app: app, backend: backend, audit: audit, store: store, ws: workspaces}
}

func token(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u-" + role,
		"email": role + "@example.com",
		"role":  role,
		"exp":   time.Now().Add(ttl).Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func form(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return req
}

func (e *testEnv) login(t *testing.T, role string) *http.Cookie {
	t.Helper()
	resp := e.do(t, form(http.MethodPost, "/login", url.Values{"token": {"Bearer " + token(t, role, time.Hour)}}))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	for _, c := range resp.Cookies() {
		if c.Name == "sid" && c.Value != "" {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func (e *testEnv) get(t *testing.T, target string, cookie *http.Cookie) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp := e.do(t, req)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (e *testEnv) post(t *testing.T, target string, cookie *http.Cookie, values url.Values) *http.Response {
	t.Helper()
	req := form(http.MethodPost, target, values)
	req.AddCookie(cookie)
	return e.do(t, req)
}

func TestRequireRedirectsAnonymousBrowsers(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.get(t, "/resources/genres", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, body := env.get(t, "/api/v1/audit", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, `"message":"Please sign in"`)
}

func TestLoginRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "empty", token: "  ", want: "Access token is required"},
		{name: "garbage", token: "not-a-jwt", want: "Access token is not a valid JWT"},
		{name: "expired", token: token(t, "admin", -time.Minute), want: "token has expired, please sign in again"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, form(http.MethodPost, "/login", url.Values{"token": {tt.token}}))
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
			assert.Contains(t, string(body), tt.want)
		})
	}
}

func TestResourcePageUsesSessionToken(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin")

	resp, body := env.get(t, "/resources/genres", cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Drama")
	assert.Contains(t, body, "DRM")
	assert.Contains(t, body, "Add genre")
	assert.True(t, strings.HasPrefix(env.backend.lastAuth(), "Bearer ey"))
}

func TestCreateGenreThroughActions(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin")

	resp, _ := env.get(t, "/resources/genres", cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.post(t, "/resources/genres/actions/new", cookie, nil)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/resources/genres", resp.Header.Get("Location"))

	_, body := env.get(t, "/resources/genres", cookie)
	assert.Contains(t, body, "Create genre")

	resp = env.post(t, "/resources/genres/actions/submit", cookie, url.Values{
		"genreName": {"Action"},
		"genreCode": {"act"},
		"isActive":  {"on"},
		"intent":    {"save"},
	})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	posted := env.backend.lastPost()
	require.NotNil(t, posted)
	assert.Equal(t, "Action", posted["genreName"])
	assert.Equal(t, "ACT", posted["genreCode"])
	assert.Equal(t, true, posted["isActive"])

	_, body = env.get(t, "/resources/genres", cookie)
	assert.Contains(t, body, "<td>Action</td>")
	assert.NotContains(t, body, "Create genre")
}

func TestInvalidSubmitStaysInForm(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin")

	env.get(t, "/resources/genres", cookie)
	env.post(t, "/resources/genres/actions/new", cookie, nil)
	resp := env.post(t, "/resources/genres/actions/submit", cookie, url.Values{
		"genreName": {""},
		"genreCode": {"A"},
		"intent":    {"save"},
	})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Nil(t, env.backend.lastPost())

	_, body := env.get(t, "/resources/genres", cookie)
	assert.Contains(t, body, "Create genre")
	assert.Contains(t, body, "Genre name is required")
	assert.Contains(t, body, "Genre code must be at least 2 characters")
}

func TestCapabilities(t *testing.T) {
	env := newTestEnv(t)

	editor := env.login(t, "editor")
	resp, body := env.get(t, "/resources/tags", editor)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "You do not have access to Tags")

	viewer := env.login(t, "viewer")
	resp, body = env.get(t, "/resources/genres", viewer)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "Add genre")

	resp = env.post(t, "/resources/genres/actions/new", viewer, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.post(t, "/resources/genres/actions/search", viewer, url.Values{"search": {"dra"}})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
}

func TestUnknownResourceAndAction(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "superadmin")

	resp, _ := env.get(t, "/resources/series", cookie)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.post(t, "/resources/genres/actions/explode", cookie, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.post(t, "/resources/genres/actions/page", cookie, url.Values{"page": {"two"}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLogoutEndsSession(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin")
	resp, _ := env.get(t, "/", cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 1, env.ws.Len())

	resp = env.post(t, "/logout", cookie, nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 0, env.ws.Len())

	resp, _ = env.get(t, "/", cookie)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestAuditEndpoints(t *testing.T) {
	env := newTestEnv(t)

	editor := env.login(t, "editor")
	resp, _ := env.get(t, "/api/v1/audit", editor)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	admin := env.login(t, "admin")
	env.audit.err = services.ErrAuditDisabled
	resp, _ = env.get(t, "/api/v1/audit", admin)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp, body := env.get(t, "/audit", admin)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "The audit trail is disabled")

	env.audit.err = nil
	env.audit.entries = []models.AuditEntry{{ID: 1, Resource: "genres", Action: "create", EntityID: "new-1", Actor: "admin@example.com", Status: "success"}}
	resp, body = env.get(t, "/api/v1/audit?page=1&limit=10", admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Data []models.AuditEntry `json:"data"`
		Meta utils.PaginationMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.Data, 1)
	assert.Equal(t, "new-1", out.Data[0].EntityID)
	assert.Equal(t, int64(1), out.Meta.Total)
	assert.Equal(t, 10, out.Meta.Limit)
}

func TestPresign(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "admin")

	resp, body := env.get(t, "/api/v1/uploads/presign?filename=poster.jpg", cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"publicUrl":"http://minio.local/bucket/image/poster.jpg"`)
	assert.Equal(t, []string{"image/poster.jpg"}, env.store.presigned)

	resp, _ = env.get(t, "/api/v1/uploads/presign?filename=clip.mp4&category=audio", cookie)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.get(t, "/api/v1/uploads/presign?filename=noext", cookie)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUploadCapabilities(t *testing.T) {
	env := newTestEnv(t)
	discard := func(cookie *http.Cookie) *http.Response {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/uploads?ref=image/poster.jpg", nil)
		req.AddCookie(cookie)
		return env.do(t, req)
	}

	viewer := env.login(t, "viewer")
	resp, body := env.get(t, "/api/v1/uploads/presign?filename=poster.jpg", viewer)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "You cannot upload attachments")
	assert.Equal(t, fiber.StatusForbidden, discard(viewer).StatusCode)
	assert.Empty(t, env.store.presigned)
	assert.Empty(t, env.store.deleted)

	editor := env.login(t, "editor")
	resp, _ = env.get(t, "/api/v1/uploads/presign?filename=poster.jpg", editor)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, fiber.StatusOK, discard(editor).StatusCode)
	assert.Equal(t, []string{"image/poster.jpg"}, env.store.deleted)
}

func TestUploadsWithoutStorage(t *testing.T) {
	nav, err := dashboard.LoadNavigation()
	require.NoError(t, err)
	h := NewUploadHandler(nil, nav, quietLogger())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(localUser, &dashboard.User{Role: "admin"})
		return c.Next()
	})
	app.Get("/presign", h.GetPresignedURL)
	app.Delete("/uploads", h.DeleteUpload)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/presign?filename=a.jpg", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/uploads?ref=a.jpg", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler(map[string]HealthCheck{
		"redis": func(context.Context) error { return nil },
		"minio": func(context.Context) error { return errors.New("connection refused") },
	}, "1.0.0", quietLogger())
	app := fiber.New()
	app.Get("/health", h.Health)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "degraded", out["status"])
	assert.Equal(t, map[string]any{"redis": "healthy", "minio": "unhealthy"}, out["dependencies"])
}
