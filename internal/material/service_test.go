package material

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"cantinho/internal/activity"
	"cantinho/internal/remote"
	"cantinho/internal/validation"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pdfContent = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")
	pngContent = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
)

type fakeBackend struct {
	materials []remote.Material
	uploads   []remote.MaterialUpload
	deleted   []int
}

func (f *fakeBackend) ListMaterials(context.Context) ([]remote.Material, error) {
	return f.materials, nil
}

func (f *fakeBackend) UploadMaterial(_ context.Context, up remote.MaterialUpload) (*remote.Material, error) {
	f.uploads = append(f.uploads, up)
	return &remote.Material{ID: 50, Title: up.Title, Type: up.Type, SubjectID: up.SubjectID}, nil
}

func (f *fakeBackend) DeleteMaterial(_ context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) ListSubjects(context.Context) ([]remote.Subject, error) {
	return []remote.Subject{{ID: 1, Name: "Matemática"}}, nil
}

func (f *fakeBackend) DownloadURL(fileRef string) string {
	return "http://api.test/uploads/" + fileRef
}

func newTestService(backend Backend) *Service {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return NewService(backend, validation.New(), activity.NewRecorder(nil, logger), logger)
}

func TestMatches(t *testing.T) {
	pdf := mimetype.Detect(pdfContent)
	png := mimetype.Detect(pngContent)
	text := mimetype.Detect([]byte("just some notes"))

	assert.True(t, Matches(remote.MaterialPDF, pdf))
	assert.False(t, Matches(remote.MaterialPDF, png))
	assert.True(t, Matches(remote.MaterialImage, png))
	assert.False(t, Matches(remote.MaterialImage, pdf))
	assert.False(t, Matches(remote.MaterialImage, text))
	assert.False(t, Matches("VIDEO", png))
}

func TestService_Upload(t *testing.T) {
	t.Run("PDF", func(t *testing.T) {
		backend := &fakeBackend{}
		created, err := newTestService(backend).Upload(context.Background(), remote.MaterialUpload{
			Title: "Apostila de Frações", Type: remote.MaterialPDF, SubjectID: 1, Filename: "fracoes.pdf", Content: pdfContent,
		})
		require.NoError(t, err)
		assert.Equal(t, 50, created.ID)
		assert.Len(t, backend.uploads, 1)
	})

	t.Run("ImageDeclaredAsPDF", func(t *testing.T) {
		backend := &fakeBackend{}
		_, err := newTestService(backend).Upload(context.Background(), remote.MaterialUpload{
			Title: "Mapa", Type: remote.MaterialPDF, SubjectID: 1, Filename: "mapa.pdf", Content: pngContent,
		})
		assert.ErrorIs(t, err, ErrTypeMismatch)
		assert.Empty(t, backend.uploads)
	})

	t.Run("MissingFields", func(t *testing.T) {
		_, err := newTestService(&fakeBackend{}).Upload(context.Background(), remote.MaterialUpload{Type: remote.MaterialPDF})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_DeleteRequiresConfirmation(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestService(backend)

	assert.ErrorIs(t, s.Delete(context.Background(), 3, false), ErrConfirmationRequired)
	assert.Empty(t, backend.deleted)

	require.NoError(t, s.Delete(context.Background(), 3, true))
	assert.Equal(t, []int{3}, backend.deleted)
}

func multipartBody(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("arquivo", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandler(t *testing.T) {
	backend := &fakeBackend{materials: []remote.Material{{ID: 7, FileURL: "abc.pdf"}}}
	router := chi.NewRouter()
	NewHandler(newTestService(backend), slog.New(slog.NewTextHandler(os.Stderr, nil))).RegisterRoutes(router)

	t.Run("Upload", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"titulo": "Tabuada", "tipo": "IMAGEM", "materiaId": "1"}, "tabuada.png", pngContent)
		req := httptest.NewRequest(http.MethodPost, "/materials", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, backend.uploads, 1)
		assert.Equal(t, "tabuada.png", backend.uploads[0].Filename)
		assert.Equal(t, pngContent, backend.uploads[0].Content)
	})

	t.Run("UploadMismatch", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"titulo": "Tabuada", "tipo": "PDF", "materiaId": "1"}, "tabuada.pdf", pngContent)
		req := httptest.NewRequest(http.MethodPost, "/materials", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("Download", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/materials/7/download", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "http://api.test/uploads/abc.pdf", w.Header().Get("Location"))
	})

	t.Run("DownloadUnknown", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/materials/8/download", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("DeleteWithoutConfirm", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/materials/7", nil))

		assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	})

	t.Run("Subjects", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/subjects", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var subjects []remote.Subject
		require.NoError(t, json.NewDecoder(w.Body).Decode(&subjects))
		assert.Equal(t, "Matemática", subjects[0].Name)
	})
}
