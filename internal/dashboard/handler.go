package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"cantinho/common/httputil"

	"github.com/go-chi/chi/v5"
)

type Refresher interface {
	Refresh(ctx context.Context) (*Stats, error)
}

type Handler struct {
	aggregator Refresher
	logger     *slog.Logger
}

func NewHandler(aggregator Refresher, logger *slog.Logger) *Handler {
	return &Handler{
		aggregator: aggregator,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/dashboard", h.GetDashboard)
}

type errorResponse struct {
	Error string `json:"error"`
	Stats *Stats `json:"stats,omitempty"`
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "refreshing dashboard")

	stats, err := h.aggregator.Refresh(r.Context())
	if err != nil {
		httputil.RespondWithJSON(w, http.StatusBadGateway, errorResponse{
			Error: "Erro ao carregar dashboard",
			Stats: stats,
		})
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, stats)
}
