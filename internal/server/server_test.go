package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/exercise-tracker/apiserver/config"
	"github.com/exercise-tracker/apiserver/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInMemoryServer(t *testing.T) *Server {
	t.Helper()
	views := t.TempDir()
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(views, "index.html"), []byte("<title>tracker</title>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "style.css"), []byte("body{}"), 0o644))

	srv, err := New(context.Background(), config.Config{
		ServerPort: 8181,
		ViewsDir:   views,
		StaticDir:  static,
	}, Options{InMemory: true, Logger: logger.Discard()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func serve(srv *Server, method, path string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestNewInMemory(t *testing.T) {
	srv := newInMemoryServer(t)
	assert.Equal(t, ":8181", srv.Addr())
}

func TestNewRequiresMongoURI(t *testing.T) {
	_, err := New(context.Background(), config.Config{}, Options{Logger: logger.Discard()})
	assert.EqualError(t, err, "MONGO_URI is required")
}

func TestRouterServesAPIAndAssets(t *testing.T) {
	srv := newInMemoryServer(t)

	rec := serve(srv, http.MethodPost, "/api/users", url.Values{"username": {"alice"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	var user struct {
		ID       string `json:"_id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)

	rec = serve(srv, http.MethodPost, "/api/users/"+user.ID+"/exercises", url.Values{
		"description": {"run"}, "duration": {"25"}, "date": {"2021-06-01"},
	})
	assert.JSONEq(t, `{"username":"alice","description":"run","duration":25,"date":"Tue Jun 01 2021","_id":`+
		jsonField(t, rec.Body.Bytes(), "_id")+`}`, rec.Body.String())

	rec = serve(srv, http.MethodGet, "/api/users/"+user.ID+"/logs", nil)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = serve(srv, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<title>tracker</title>", rec.Body.String())

	rec = serve(srv, http.MethodGet, "/public/style.css", nil)
	assert.Equal(t, "body{}", rec.Body.String())
}

func TestRouterOperationalEndpoints(t *testing.T) {
	srv := newInMemoryServer(t)

	rec := serve(srv, http.MethodGet, "/healthz", nil)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	serve(srv, http.MethodGet, "/api/users", nil)
	rec = serve(srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/users`)
}

func jsonField(t *testing.T, data []byte, key string) string {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	return string(fields[key])
}
