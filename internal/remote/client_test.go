package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"cantinho/common/metrics"
	"cantinho/internal/money"
	"cantinho/internal/remote"
	"cantinho/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newClient(t *testing.T, handler http.HandlerFunc) *remote.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return remote.NewClient(srv.URL, 5*time.Second, metrics.NewMock().Remote)
}

func TestClient_ListClasses_FiltersByDay(t *testing.T) {
	var gotQuery, gotAuth string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/aulas", r.URL.Path)
		gotQuery = r.URL.Query().Get("dia")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[{"id":1,"diaSemana":"QUARTA","horarioInicio":"14:00","horarioFim":"15:00","alunos":[{"id":3,"nome":"Ana"}],"professorId":9}]`))
	})
	client.SetTokenSource(staticToken("abc"))

	classes, err := client.ListClasses(context.Background(), schedule.Wednesday)
	require.NoError(t, err)

	assert.Equal(t, "QUARTA", gotQuery)
	assert.Equal(t, "Bearer abc", gotAuth)
	require.Len(t, classes, 1)
	assert.Equal(t, schedule.Wednesday, classes[0].Day)
	assert.Equal(t, []remote.StudentRef{{ID: 3, Name: "Ana"}}, classes[0].Students)
}

func TestClient_CreateClass_DerivesEndTime(t *testing.T) {
	var body map[string]interface{}
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":7,"diaSemana":"SEGUNDA","horarioInicio":"18:00","horarioFim":"19:00","alunos":[]}`))
	})

	class, err := client.CreateClass(context.Background(), remote.ClassInput{
		Day:        schedule.Monday,
		Start:      "18:00",
		StudentIDs: []int{1, 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 7, class.ID)
	assert.Equal(t, "18:00", body["horarioInicio"])
	assert.Equal(t, "19:00", body["horarioFim"])
	assert.Equal(t, "SEGUNDA", body["diaSemana"])
	assert.Equal(t, []interface{}{float64(1), float64(2)}, body["alunosIds"])
}

func TestClient_CreateClass_InvalidStartNeverDispatched(t *testing.T) {
	var calls int32
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	_, err := client.CreateClass(context.Background(), remote.ClassInput{Day: schedule.Monday, Start: "23:00"})
	assert.ErrorIs(t, err, schedule.ErrInvalidTime)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestClient_RosterEndpoints(t *testing.T) {
	var paths []string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		paths = append(paths, r.URL.Path)
	})

	require.NoError(t, client.AddStudentToClass(context.Background(), 4, 11))
	require.NoError(t, client.RemoveStudentFromClass(context.Background(), 4, 11))

	assert.Equal(t, []string{"/aulas/4/adicionar-aluno/11", "/aulas/4/remover-aluno/11"}, paths)
}

func TestClient_ErrorMapping(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/alunos/404":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Aluno não encontrado"}`))
		case "/alunos/409":
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message":["horário ocupado","aluno já matriculado"]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	_, err := client.GetStudent(context.Background(), 404)
	assert.ErrorIs(t, err, remote.ErrNotFound)
	var apiErr *remote.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Aluno não encontrado", apiErr.Message)

	_, err = client.GetStudent(context.Background(), 409)
	assert.ErrorIs(t, err, remote.ErrConflict)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "horário ocupado; aluno já matriculado", apiErr.Message)

	_, err = client.GetStudent(context.Background(), 1)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.False(t, errors.Is(err, remote.ErrNotFound))
}

func TestClient_UnauthorizedHook(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	client.SetTokenSource(staticToken("stale"))

	var fired int32
	client.OnUnauthorized(func() { atomic.AddInt32(&fired, 1) })

	_, err := client.ListStudents(context.Background())
	assert.ErrorIs(t, err, remote.ErrUnauthorized)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))

	// login failures are credential errors, not a lost session
	_, err = client.Login(context.Background(), "a@b.com", "wrong")
	assert.ErrorIs(t, err, remote.ErrUnauthorized)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestClient_Login(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"email": "prof@cantinho.com", "senha": "s3cret"}, body)
		w.Write([]byte(`{"access_token":"tok"}`))
	})
	client.SetTokenSource(staticToken("old"))

	token, err := client.Login(context.Background(), "prof@cantinho.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestClient_Payments(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "Outubro", r.URL.Query().Get("mes"))
			w.Write([]byte(`[{"id":1,"alunoId":2,"aluno":{"nome":"Bia"},"mesReferencia":"Outubro","dataVencimento":"2026-10-10","valor":"150.00","status":"PENDENTE","dataPagamento":null}]`))
		case http.MethodPatch:
			raw, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"alunoId":2,"mesReferencia":"Outubro","dataVencimento":"2026-10-10","valor":150,"status":"PENDENTE","dataPagamento":null}`, string(raw))
			w.Write([]byte(`{"id":1}`))
		}
	})

	payments, err := client.ListPayments(context.Background(), "Outubro")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "150", payments[0].Amount.String())
	assert.Nil(t, payments[0].PaidAt)
	assert.Equal(t, "Bia", payments[0].Student.Name)

	_, err = client.UpdatePayment(context.Background(), 1, remote.PaymentInput{
		StudentID:      2,
		ReferenceMonth: "Outubro",
		DueDate:        "2026-10-10",
		Amount:         money.MustParse("150.00"),
		Status:         remote.PaymentPending,
	})
	require.NoError(t, err)
}

func TestClient_UploadMaterial(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Frações", r.FormValue("titulo"))
		assert.Equal(t, "PDF", r.FormValue("tipo"))
		assert.Equal(t, "3", r.FormValue("materiaId"))

		f, hdr, err := r.FormFile("arquivo")
		require.NoError(t, err)
		defer f.Close()
		content, _ := io.ReadAll(f)
		assert.Equal(t, "fracoes.pdf", hdr.Filename)
		assert.Equal(t, "%PDF-1.4", string(content))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":5,"titulo":"Frações","tipo":"PDF","urlArquivo":"abc-fracoes.pdf","materiaId":3}`))
	})

	material, err := client.UploadMaterial(context.Background(), remote.MaterialUpload{
		Title:     "Frações",
		Type:      remote.MaterialPDF,
		SubjectID: 3,
		Filename:  "fracoes.pdf",
		Content:   []byte("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, material.ID)
	assert.Equal(t, client.BaseURL()+"/uploads/abc-fracoes.pdf", client.DownloadURL(material.FileURL))
	assert.Equal(t, client.BaseURL()+"/uploads/x.png", client.DownloadURL("uploads/x.png"))
}
