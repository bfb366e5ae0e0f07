package student

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
	router.Get("/students", h.ListStudents)
	router.Post("/students", h.CreateStudent)
	router.Get("/students/{id}", h.GetStudent)
	router.Patch("/students/{id}", h.UpdateStudent)
}

func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching all students")

	students, err := h.service.ListStudents(r.Context(), Filter{
		Query:  r.URL.Query().Get("q"),
		Status: remote.StudentStatus(r.URL.Query().Get("status")),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, students)
}

func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	h.logger.InfoContext(r.Context(), "fetching student by ID", "student_id", id)
	st, err := h.service.GetStudent(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, st)
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var in remote.StudentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	h.logger.InfoContext(r.Context(), "creating student", "name", in.Name)
	created, err := h.service.CreateStudent(r.Context(), in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	var in remote.StudentUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	h.logger.InfoContext(r.Context(), "updating student", "student_id", id)
	updated, err := h.service.UpdateStudent(r.Context(), id, in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	if errors.Is(err, ErrStudentNotFound) {
		h.logger.InfoContext(ctx, "student not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Student not found")
		return
	}
	if errors.Is(err, ErrInvalidInput) {
		h.logger.InfoContext(ctx, "invalid input", "error", err)
		httputil.RespondWithValidationError(w, err)
		return
	}
	h.logger.ErrorContext(ctx, "student operation failed", "error", err)
	httputil.RespondWithError(w, http.StatusBadGateway, "Failed to reach the student register")
}
