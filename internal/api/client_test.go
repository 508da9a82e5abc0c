package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-tui/pkg/config"
	appErrors "github.com/noah-isme/sma-admin-tui/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(config.APIConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, nil)
}

func TestListStudents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/students", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`[{"id":"1","student_id":"S1","name":"Ann Lee","course":"science"}]`))
	})

	students, err := client.ListStudents(context.Background())

	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Ann Lee", students[0].Name)
	assert.Equal(t, "S1", students[0].StudentID)
}

func TestServerErrorMessageSurfaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"student ID already exists"}`))
	})

	_, err := client.ListStudents(context.Background())

	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "student ID already exists", appErr.Message)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestServerErrorWithoutBodyGetsFallbackMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.ListStudents(context.Background())

	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "request failed with status 500", appErr.Message)
}

func TestTransportErrorWrapped(t *testing.T) {
	client := New(config.APIConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, nil)

	_, err := client.ListStudents(context.Background())

	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrTransport.Code, appErr.Code)
}

func TestCreateStudentSendsMultipartFields(t *testing.T) {
	var gotForm map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/submit", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotForm = map[string]string{}
		for key, values := range r.MultipartForm.Value {
			gotForm[key] = values[0]
		}
		w.Write([]byte(`{"message":"ok"}`))
	})

	err := client.CreateStudent(context.Background(), StudentForm{
		StudentID: "S1",
		Name:      "Ann Lee",
		Email:     "ann@example.com",
		Gender:    "Female",
		Course:    "science",
	})

	require.NoError(t, err)
	assert.Equal(t, "S1", gotForm["student_id"])
	assert.Equal(t, "Ann Lee", gotForm["name"])
	assert.Equal(t, "ann@example.com", gotForm["email"])
	assert.Equal(t, "science", gotForm["course"])
}

func TestCreateStudentAttachesPhoto(t *testing.T) {
	photo := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg-bytes"), 0o644))

	var gotFilename string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File["profile_pic"]
		require.Len(t, files, 1)
		gotFilename = files[0].Filename
		w.Write([]byte(`{"message":"ok"}`))
	})

	err := client.CreateStudent(context.Background(), StudentForm{
		StudentID: "S1", Name: "Ann Lee", PhotoPath: photo,
	})

	require.NoError(t, err)
	assert.Equal(t, "photo.jpg", gotFilename)
}

func TestUpdateStudentUsesPutWithID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/students/internal-1", r.URL.Path)
		w.Write([]byte(`{"message":"ok"}`))
	})

	require.NoError(t, client.UpdateStudent(context.Background(), "internal-1", StudentForm{Name: "Ann Lee"}))
}

func TestAddFeeSendsDateOnlyWhenPaid(t *testing.T) {
	var gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fees/add", r.URL.Path)
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		gotBody = string(data)
		w.Write([]byte(`{"message":"ok"}`))
	})

	require.NoError(t, client.AddFee(context.Background(), FeeForm{
		StudentID: "S1", Status: "unpaid", Amount: 100, Date: "2024-03-05",
	}))
	assert.NotContains(t, gotBody, "date", "date is omitted unless the entry is paid")

	require.NoError(t, client.AddFee(context.Background(), FeeForm{
		StudentID: "S1", Status: "paid", Amount: 100, Date: "2024-03-05",
	}))
	assert.Contains(t, gotBody, `"date":"2024-03-05"`)
}

func TestPaymentHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fees/history/S1", r.URL.Path)
		w.Write([]byte(`[{"payment_id":"p1","amount":150,"date":"2024-03-05"}]`))
	})

	payments, err := client.PaymentHistory(context.Background(), "S1")

	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, 150.0, payments[0].Amount)
}

func TestDeletePayment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/fees/delete/p1", r.URL.Path)
		w.Write([]byte(`{"message":"ok"}`))
	})

	require.NoError(t, client.DeletePayment(context.Background(), "p1"))
}
