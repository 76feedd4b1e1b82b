package server_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/solardev/solar-api/internal/config"
	"github.com/solardev/solar-api/internal/middleware"
	"github.com/solardev/solar-api/internal/server"
	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	cfg := &config.Config{Port: 8080, DBPath: ":memory:", LogLevel: "error"}

	srv, err := server.New(cfg, logger)
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	t.Cleanup(func() { srv.Close() })

	return srv.Router()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestServer_MetaEndpoints(t *testing.T) {
	h := newTestServer(t)

	t.Run("root", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Welcome")
	})

	t.Run("health", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, rr.Code)

		var res map[string]string
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "healthy", res["status"])
		assert.Equal(t, "solar-api", res["service"])
	})

	t.Run("info", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/api/info", "")
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		rr := do(t, h, http.MethodGet, "/api/nope", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestServer_RequestIDHeader(t *testing.T) {
	h := newTestServer(t)

	rr := do(t, h, http.MethodGet, "/health", "")
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

// TestServer_FullFlow drives the whole stack through the real router: user
// and task creation, atomic toggle, then cascade delete.
func TestServer_FullFlow(t *testing.T) {
	h := newTestServer(t)

	rr := do(t, h, http.MethodPost, "/api/users", `{"name": "Ann", "email": "ann@example.com"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/tasks", `{"title": "T1", "user_id": 1}`)
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, h, http.MethodPatch, "/api/tasks/1/toggle", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"completed":true`)

	rr = do(t, h, http.MethodDelete, "/api/users/1", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/tasks/1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_CalculatorRoute(t *testing.T) {
	h := newTestServer(t)

	rr := do(t, h, http.MethodPost, "/api/calculator/divide", `{"a": 9, "b": 3}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"result":3`)
}

func TestServer_DataRoute(t *testing.T) {
	h := newTestServer(t)

	rr := do(t, h, http.MethodPost, "/api/data/statistics/analyze", `[1, 2, 3]`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"mean":2`)
}
