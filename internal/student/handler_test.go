package student_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"cantinho/internal/activity"
	"cantinho/internal/remote"
	"cantinho/internal/student"
	"cantinho/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	students []remote.Student
	created  []remote.StudentInput
	updates  map[int]remote.StudentUpdate
}

func (f *fakeBackend) ListStudents(context.Context) ([]remote.Student, error) {
	return f.students, nil
}

func (f *fakeBackend) GetStudent(_ context.Context, id int) (*remote.Student, error) {
	for _, s := range f.students {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, &remote.Error{StatusCode: http.StatusNotFound}
}

func (f *fakeBackend) CreateStudent(_ context.Context, in remote.StudentInput) (*remote.Student, error) {
	f.created = append(f.created, in)
	return &remote.Student{ID: 10, Name: in.Name, Status: remote.StudentActive}, nil
}

func (f *fakeBackend) UpdateStudent(_ context.Context, id int, in remote.StudentUpdate) (*remote.Student, error) {
	if f.updates == nil {
		f.updates = map[int]remote.StudentUpdate{}
	}
	f.updates[id] = in
	return &remote.Student{ID: id}, nil
}

func setupRouter(backend *fakeBackend) chi.Router {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := student.NewService(backend, validation.New(), activity.NewRecorder(nil, logger), logger)
	router := chi.NewRouter()
	student.NewHandler(svc, logger).RegisterRoutes(router)
	return router
}

func do(router chi.Router, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, target, strings.NewReader(body)))
	return w
}

func TestStudentHandler(t *testing.T) {
	backend := &fakeBackend{students: []remote.Student{
		{ID: 1, Name: "Ana Clara", GuardianName: "Rita", Status: remote.StudentActive},
		{ID: 2, Name: "Pedro", GuardianName: "Ana Maria", Status: remote.StudentInactive},
		{ID: 3, Name: "João", GuardianName: "Carlos", Status: remote.StudentActive},
	}}
	router := setupRouter(backend)

	t.Run("ListStudents_SearchMatchesGuardian", func(t *testing.T) {
		w := do(router, http.MethodGet, "/students?q=ANA", "")

		require.Equal(t, http.StatusOK, w.Code)
		var got []remote.Student
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Len(t, got, 2)
	})

	t.Run("ListStudents_StatusFilter", func(t *testing.T) {
		w := do(router, http.MethodGet, "/students?q=ana&status=ATIVO", "")

		var got []remote.Student
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].ID)
	})

	t.Run("GetStudent_NotFound", func(t *testing.T) {
		w := do(router, http.MethodGet, "/students/99", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("CreateStudent_Success", func(t *testing.T) {
		body := `{"nome":"  Laura Dias ","nomeResponsavel":"Marta Dias","telefoneResponsavel":"(11) 98765-4321","mensalidade":"180.00"}`
		w := do(router, http.MethodPost, "/students", body)

		require.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, backend.created, 1)
		assert.Equal(t, "Laura Dias", backend.created[0].Name)
		assert.Equal(t, "180", backend.created[0].MonthlyFee.String())
	})

	t.Run("CreateStudent_ValidationErrors", func(t *testing.T) {
		body := `{"nome":"Al","nomeResponsavel":"Marta Dias","telefoneResponsavel":"11-abc-12345","mensalidade":0}`
		w := do(router, http.MethodPost, "/students", body)

		require.Equal(t, http.StatusBadRequest, w.Code)
		var resp struct {
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Contains(t, resp.Fields, "nome")
		assert.Contains(t, resp.Fields, "telefoneResponsavel")
		assert.Contains(t, resp.Fields, "mensalidade")
	})

	t.Run("UpdateStudent_StatusOnly", func(t *testing.T) {
		w := do(router, http.MethodPatch, "/students/2", `{"status":"ATIVO"}`)

		require.Equal(t, http.StatusOK, w.Code)
		upd := backend.updates[2]
		require.NotNil(t, upd.Status)
		assert.Equal(t, remote.StudentActive, *upd.Status)
		assert.Nil(t, upd.Name)
	})

	t.Run("UpdateStudent_BadStatus", func(t *testing.T) {
		w := do(router, http.MethodPatch, "/students/2", `{"status":"SUMIDO"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
