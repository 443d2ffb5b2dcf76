package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/exercise-tracker/apiserver/internal/logger"
	"github.com/exercise-tracker/apiserver/internal/services"
	"github.com/exercise-tracker/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2024, time.March, 4, 15, 0, 0, 0, time.UTC)

// newTestAPI mounts the user and exercise routes over in-memory repositories.
func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	users := store.NewInMemoryUserRepository()
	exercises := store.NewInMemoryExerciseRepository(users)
	log := logger.Discard()
	opts := []services.Option{services.WithLogger(log), services.WithClock(func() time.Time { return testToday })}

	userSvc := services.NewUserService(users, opts...)
	exerciseSvc := services.NewExerciseService(exercises, users, opts...)

	r := chi.NewRouter()
	r.Route("/api/users", func(r chi.Router) {
		UserRouter(r, userSvc, exerciseSvc, log)
	})
	r.Route("/api/exercises", func(r chi.Router) {
		ExerciseRouter(r, exerciseSvc, log)
	})
	return r
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type userJSON struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

type exerciseJSON struct {
	ID          string `json:"_id"`
	Username    string `json:"username"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

type logJSON struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Count    int    `json:"count"`
	Log      []struct {
		Description string `json:"description"`
		Duration    int    `json:"duration"`
		Date        string `json:"date"`
	} `json:"log"`
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, message string) {
	t.Helper()
	resp := decode[ErrorResponse](t, rec)
	require.Equal(t, message, resp.Error)
}

func createUser(t *testing.T, h http.Handler, username string) userJSON {
	t.Helper()
	user := decode[userJSON](t, postForm(t, h, "/api/users", url.Values{"username": {username}}))
	require.NotEmpty(t, user.ID)
	return user
}
