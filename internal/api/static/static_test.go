package static

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-service/internal/config"
	todosv1 "todo-service/pkg/todos/v1"
)

var discard = slog.New(slog.DiscardHandler)

func newBundleDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o600))
	return dir
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestNewHandler_Bundle(t *testing.T) {
	h := NewHandler(&config.ConfigStatic{Enabled: true, Dir: newBundleDir(t)}, "1.0.0", discard)

	rec := get(h, "/assets/app.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log(1)", rec.Body.String())

	// клиентский маршрут
	rec = get(h, "/todos/active")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>app</html>", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	rec = get(h, "/missing.css")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewHandler_WelcomeWhenBundleAbsent(t *testing.T) {
	for _, cfg := range []*config.ConfigStatic{
		nil,
		{Enabled: false, Dir: newBundleDir(t)},
		{Enabled: true, Dir: filepath.Join(t.TempDir(), "dist")},
	} {
		rec := get(NewHandler(cfg, "1.0.0", discard), "/")
		require.Equal(t, http.StatusOK, rec.Code)

		var body todosv1.WelcomeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "1.0.0", body.Version)
		assert.Equal(t, "/api/todos", body.Endpoints["todos"])
		assert.NotEmpty(t, body.Message)
	}
}
