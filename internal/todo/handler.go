package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"cantinho/common/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Handler struct {
	store    *Store
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(store *Store, validate *validator.Validate, logger *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		validate: validate,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/reminders", h.ListReminders)
	router.Post("/reminders", h.AddReminder)
	router.Patch("/reminders/{id}/toggle", h.ToggleReminder)
	router.Delete("/reminders/{id}", h.RemoveReminder)
}

func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.store.List()
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}
	if reminders == nil {
		reminders = []Reminder{}
	}

	httputil.RespondWithJSON(w, http.StatusOK, reminders)
}

func (h *Handler) AddReminder(w http.ResponseWriter, r *http.Request) {
	var req CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.RespondWithValidationError(w, err)
		return
	}

	created, err := h.store.Add(r.Context(), req.Text)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) ToggleReminder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid reminder ID")
		return
	}

	toggled, err := h.store.Toggle(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, toggled)
}

func (h *Handler) RemoveReminder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid reminder ID")
		return
	}

	if err := h.store.Remove(r.Context(), id); err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrReminderNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "Reminder not found")
	case errors.Is(err, ErrEmptyText):
		httputil.RespondWithValidationError(w, fmt.Errorf("text: %w", err))
	case errors.Is(err, ErrNotLoaded):
		httputil.RespondWithError(w, http.StatusServiceUnavailable, "Reminders are still loading")
	default:
		h.logger.ErrorContext(r.Context(), "reminder operation failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Failed to save reminders")
	}
}
