package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-api/internal/config"
	infraCache "bookstore-api/internal/infrastructure/cache"
	"bookstore-api/pkg/container"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return SetupRouter(testContainer(t))
}

func testContainer(t *testing.T) *container.Container {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Version: "test"},
		JWT: config.JWTConfig{
			Key:      "0123456789abcdef0123456789abcdef",
			Issuer:   "bookstore-api",
			Audience: "bookstore-ui",
			Expiry:   5 * time.Minute,
		},
		Auth: config.AuthConfig{MaxLoginAttempts: 5, LoginLockout: time.Minute},
	}
	c, err := container.Wire(cfg, nil, nil)
	require.NoError(t, err)
	return c
}

func TestHealth_WithoutDatabaseIsUnavailable(t *testing.T) {
	r := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Details struct {
				Status   string            `json:"status"`
				Services map[string]string `json:"services"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	assert.Equal(t, "degraded", body.Error.Details.Status)
	assert.Equal(t, "disconnected", body.Error.Details.Services["database"])
	assert.Equal(t, "disconnected", body.Error.Details.Services["redis"])
}

func TestHealth_ReportsRedisStatus(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := infraCache.NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rc.Close() })

	c := testContainer(t)
	c.Redis = rc
	r := SetupRouter(c)

	redisStatus := func() string {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		var body struct {
			Error struct {
				Details struct {
					Services map[string]string `json:"services"`
				} `json:"details"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body.Error.Details.Services["redis"]
	}

	assert.Equal(t, "ok", redisStatus())

	mr.Close()
	assert.Equal(t, "error", redisStatus())
}

func TestRoutes_WritesRequireToken(t *testing.T) {
	r := testRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/authors"},
		{http.MethodPut, "/api/authors/1"},
		{http.MethodDelete, "/api/authors/1"},
		{http.MethodPost, "/api/books"},
		{http.MethodPut, "/api/books/1"},
		{http.MethodDelete, "/api/books/1"},
		{http.MethodGet, "/api/users/me"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRoutes_LoginValidatesBeforeStorage(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(`{"emailAddress":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutes_UnknownPath(t *testing.T) {
	r := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/publishers", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
