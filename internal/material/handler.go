package material

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"cantinho/common/httputil"
	"cantinho/internal/remote"

	"github.com/go-chi/chi/v5"
)

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
	router.Get("/materials", h.ListMaterials)
	router.Post("/materials", h.UploadMaterial)
	router.Delete("/materials/{id}", h.DeleteMaterial)
	router.Get("/materials/{id}/download", h.DownloadMaterial)
	router.Get("/subjects", h.ListSubjects)
}

func (h *Handler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := h.service.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, materials)
}

func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.service.Subjects(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, subjects)
}

// UploadMaterial takes the same multipart fields the API expects:
// titulo, tipo, materiaId and arquivo.
func (h *Handler) UploadMaterial(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("arquivo")
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Arquivo obrigatório")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	subjectID, _ := strconv.Atoi(r.FormValue("materiaId"))
	up := remote.MaterialUpload{
		Title:     r.FormValue("titulo"),
		Type:      remote.MaterialType(r.FormValue("tipo")),
		SubjectID: subjectID,
		Filename:  header.Filename,
		Content:   content,
	}

	h.logger.InfoContext(r.Context(), "uploading material", "title", up.Title, "type", up.Type, "size", len(content))
	created, err := h.service.Upload(r.Context(), up)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid material ID")
		return
	}
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	h.logger.InfoContext(r.Context(), "deleting material", "material_id", id, "confirmed", confirmed)
	if err := h.service.Delete(r.Context(), id, confirmed); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DownloadMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid material ID")
		return
	}

	url, err := h.service.DownloadURL(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, ErrMaterialNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "Material not found")
	case errors.Is(err, ErrTypeMismatch):
		httputil.RespondWithError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, ErrInvalidInput):
		h.logger.InfoContext(ctx, "invalid input", "error", err)
		httputil.RespondWithValidationError(w, err)
	case errors.Is(err, ErrConfirmationRequired):
		httputil.RespondWithError(w, http.StatusPreconditionRequired, "Deletion must be confirmed with ?confirm=true")
	default:
		h.logger.ErrorContext(ctx, "material operation failed", "error", err)
		httputil.RespondWithError(w, http.StatusBadGateway, "Failed to reach the materials service")
	}
}
