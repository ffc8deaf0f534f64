package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"expensed/internal/config"
	"expensed/internal/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Storage.DatabasePath = ":memory:"
	cfg.Auth.SecretKey = "test-secret"

	st, err := store.Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return New(cfg, st, zap.NewNop())
}

func newAuthTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Storage.DatabasePath = ":memory:"
	cfg.Auth.Enabled = true
	cfg.Auth.SecretKey = "test-secret"

	st, err := store.Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return New(cfg, st, zap.NewNop())
}

// request performs a JSON request against the router.
func request(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var l []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
	return l
}

// requireError asserts the uniform {"error": message} body.
func requireError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, w.Code)
	require.Equal(t, message, decodeMap(t, w)["error"])
}

func TestHealthcheck(t *testing.T) {
	s := newTestServer(t)

	w := request(t, s, http.MethodGet, "/healthcheck", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeMap(t, w)
	require.Equal(t, "ok", body["status"])
	require.NotEmpty(t, body["date"])
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)

	w := request(t, s, http.MethodGet, "/healthcheck", nil)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// A client-supplied ID is echoed back.
	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
