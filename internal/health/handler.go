package health

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"cantinho/common/httputil"
	"cantinho/common/metrics"

	"github.com/go-chi/chi/v5"
)

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

type Handler struct {
	checks  map[string]Check
	metrics *metrics.HealthMetrics
	timeout time.Duration
	logger  *slog.Logger
}

func NewHandler(checks map[string]Check, m *metrics.HealthMetrics, logger *slog.Logger) *Handler {
	return &Handler{
		checks:  checks,
		metrics: m,
		timeout: 2 * time.Second,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.Health)
	router.Get("/ready", h.Ready)
}

// Names lists the registered dependencies.
func (h *Handler) Names() []string {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	return names
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready runs every check concurrently and answers 503 if any fails.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	results, err := h.run(ctx)
	if err != nil {
		httputil.RespondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "not ready", Dependencies: results})
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "ready", Dependencies: results})
}

// CheckAll runs every check and returns the first failure.
func (h *Handler) CheckAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	_, err := h.run(ctx)
	return err
}

func (h *Handler) run(ctx context.Context) (map[string]string, error) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		results  = make(map[string]string, len(h.checks))
		firstErr error
	)
	for name, check := range h.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := check(ctx)
			h.metrics.RecordDependencyCheck(ctx, name, time.Since(start), err)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				h.logger.WarnContext(ctx, "dependency check failed", "dependency", name, "error", err)
				results[name] = "down"
				if firstErr == nil {
					firstErr = fmt.Errorf("%s: %w", name, err)
				}
				return
			}
			results[name] = "up"
		}()
	}
	wg.Wait()

	return results, firstErr
}
