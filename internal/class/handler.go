package class

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"cantinho/common/httputil"
	"cantinho/internal/remote"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/classes", h.CreateClass)
	router.Patch("/classes/{id}", h.UpdateClass)
	router.Delete("/classes/{id}", h.DeleteClass)
	router.Post("/classes/{id}/students/{studentID}", h.AddStudent)
	router.Delete("/classes/{id}/students/{studentID}", h.RemoveStudent)
}

func (h *Handler) CreateClass(w http.ResponseWriter, r *http.Request) {
	var in remote.ClassInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	h.logger.InfoContext(r.Context(), "creating class", "day", in.Day, "start", in.Start)
	created, err := h.service.CreateClass(r.Context(), in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateClass(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid class ID")
		return
	}

	var in remote.ClassInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	h.logger.InfoContext(r.Context(), "updating class", "class_id", id)
	updated, err := h.service.UpdateClass(r.Context(), id, in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) AddStudent(w http.ResponseWriter, r *http.Request) {
	classID, studentID, ok := rosterParams(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "adding student to class", "class_id", classID, "student_id", studentID)
	c, err := h.service.AddStudent(r.Context(), classID, studentID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, c)
}

func (h *Handler) RemoveStudent(w http.ResponseWriter, r *http.Request) {
	classID, studentID, ok := rosterParams(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "removing student from class", "class_id", classID, "student_id", studentID)
	c, err := h.service.RemoveStudent(r.Context(), classID, studentID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteClass(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid class ID")
		return
	}
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	h.logger.InfoContext(r.Context(), "deleting class", "class_id", id, "confirmed", confirmed)
	if err := h.service.DeleteClass(r.Context(), id, confirmed); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func rosterParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	classID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid class ID")
		return 0, 0, false
	}
	studentID, err := strconv.Atoi(chi.URLParam(r, "studentID"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return 0, 0, false
	}
	return classID, studentID, true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, ErrClassNotFound):
		h.logger.InfoContext(ctx, "class not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Class not found")
	case errors.Is(err, ErrInvalidInput):
		h.logger.InfoContext(ctx, "invalid input", "error", err)
		httputil.RespondWithValidationError(w, err)
	case errors.Is(err, ErrConfirmationRequired):
		httputil.RespondWithError(w, http.StatusPreconditionRequired, "Deletion must be confirmed with ?confirm=true")
	case errors.Is(err, remote.ErrConflict):
		h.logger.InfoContext(ctx, "class rejected by backend", "error", err)
		httputil.RespondWithError(w, http.StatusConflict, "Class could not be saved: "+remote.Message(err))
	default:
		h.logger.ErrorContext(ctx, "class operation failed", "error", err)
		httputil.RespondWithError(w, http.StatusBadGateway, "Failed to save class")
	}
}
