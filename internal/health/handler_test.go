package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"cantinho/common/metrics"
	"cantinho/internal/health"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(checks map[string]health.Check) chi.Router {
	router := chi.NewRouter()
	health.NewHandler(checks, metrics.NewMock().Health, slog.New(slog.NewTextHandler(os.Stderr, nil))).RegisterRoutes(router)
	return router
}

func TestHealthHandler(t *testing.T) {
	t.Run("Health", func(t *testing.T) {
		router := setupRouter(nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("Ready_AllUp", func(t *testing.T) {
		router := setupRouter(map[string]health.Check{
			"database": func(context.Context) error { return nil },
			"remote":   func(context.Context) error { return nil },
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp health.HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "ready", resp.Status)
		assert.Equal(t, map[string]string{"database": "up", "remote": "up"}, resp.Dependencies)
	})

	t.Run("Ready_OneDown", func(t *testing.T) {
		router := setupRouter(map[string]health.Check{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp health.HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "down", resp.Dependencies["redis"])
		assert.Equal(t, "up", resp.Dependencies["database"])
	})
}

func TestCheckAll(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ok := health.NewHandler(map[string]health.Check{
		"database": func(context.Context) error { return nil },
	}, metrics.NewMock().Health, logger)
	assert.NoError(t, ok.CheckAll(context.Background()))

	down := health.NewHandler(map[string]health.Check{
		"redis": func(context.Context) error { return errors.New("refused") },
	}, metrics.NewMock().Health, logger)
	err := down.CheckAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}
