package payment

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"cantinho/common/httputil"
	"cantinho/internal/remote"

	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/payments", h.ListPayments)
	router.Post("/payments", h.CreatePayment)
	router.Get("/payments/export", h.ExportPayments)
	router.Patch("/payments/{id}", h.UpdatePayment)
	router.Delete("/payments/{id}", h.DeletePayment)
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := Filter{
		Month:  q.Get("mes"),
		Query:  q.Get("q"),
		Status: remote.PaymentStatus(q.Get("status")),
	}

	h.logger.InfoContext(r.Context(), "listing payments", "month", filter.Month)
	summary, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, summary)
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var in remote.PaymentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	h.logger.InfoContext(r.Context(), "creating payment", "student_id", in.StudentID, "month", in.ReferenceMonth)
	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	var in remote.PaymentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	h.logger.InfoContext(r.Context(), "updating payment", "payment_id", id, "status", in.Status)
	updated, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting payment", "payment_id", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExportPayments(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("mes")

	// buffered so a failure can still become a JSON error
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), month, &buf); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if month == "" {
		month = MonthName(h.service.now())
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": ExportFilename(month)}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, ErrPaymentNotFound):
		h.logger.InfoContext(ctx, "payment not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Payment not found")
	case errors.Is(err, ErrInvalidInput):
		h.logger.InfoContext(ctx, "invalid input", "error", err)
		httputil.RespondWithValidationError(w, err)
	default:
		h.logger.ErrorContext(ctx, "payment operation failed", "error", err)
		httputil.RespondWithError(w, http.StatusBadGateway, "Failed to process payment")
	}
}
