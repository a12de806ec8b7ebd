package router

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cuongbtq/jobster-api/internal/api/auth"
	"github.com/cuongbtq/jobster-api/internal/api/handler"
	"github.com/cuongbtq/jobster-api/internal/api/model"
	"github.com/cuongbtq/jobster-api/internal/api/storage"
	"github.com/cuongbtq/jobster-api/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// emptyStore has no jobs for anyone
type emptyStore struct {
	storage.JobStore
}

func (emptyStore) ListJobs(context.Context, storage.JobQuery) ([]model.Job, error) {
	return []model.Job{}, nil
}

func (emptyStore) CountJobs(context.Context, storage.JobQuery) (int64, error) {
	return 0, nil
}

func newTestRouter(t *testing.T, logOutput *bytes.Buffer) (*gin.Engine, *auth.Authenticator) {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	if logOutput != nil {
		logger = slog.New(slog.NewJSONHandler(logOutput, nil))
	}

	authn := auth.NewAuthenticator("secret", "", time.Hour)
	deps := &handler.Dependencies{
		Logger:      logger,
		Store:       emptyStore{},
		Auth:        authn,
		ServiceName: "jobster-api",
		HealthChecks: []handler.HealthCheck{
			{Name: "postgres", Check: func(context.Context) error { return nil }},
		},
	}

	metrics.MustRegister()
	return SetupRouter(deps, Options{
		AllowedOrigins: []string{"http://localhost:3000"},
		MetricsPath:    "/metrics",
	}), authn
}

func TestHealthRoute(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestJobsRequireAuth(t *testing.T) {
	r, authn := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"msg":"Authentication invalid"}`, w.Body.String())

	token, err := authn.IssueToken(auth.User{ID: "u1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"jobs":[],"totalJobs":0,"numOfPages":0}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/jobs", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMetricsRoute(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",route="/health",status="200"}`)
}

func TestLoggerMiddleware_IncludesUser(t *testing.T) {
	var buf bytes.Buffer
	r, authn := newTestRouter(t, &buf)

	token, err := authn.IssueToken(auth.User{ID: "u42"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs?status=all", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"msg":"HTTP Request"`)
	assert.Contains(t, out, `"user_id":"u42"`)
	assert.Contains(t, out, `"query":"status=all"`)
}
