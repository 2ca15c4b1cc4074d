// Package static раздает собранный клиент или, если сборки нет,
// отвечает приветственным JSON на корневые запросы.
package static

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"

	"todo-service/internal/config"
	todosv1 "todo-service/pkg/todos/v1"
)

const indexFile = "index.html"

// fileMatcher отличает запросы к файлам от клиентских маршрутов
var fileMatcher = regexp.MustCompile(`\.[a-zA-Z0-9]*$`)

// NewHandler возвращает обработчик для всех путей вне API
func NewHandler(cfg *config.ConfigStatic, version string, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	if cfg != nil && cfg.Enabled {
		bundle := os.DirFS(cfg.Dir)
		_, err := fs.Stat(bundle, indexFile)
		if err == nil {
			log.Info("serving client bundle", "dir", cfg.Dir)
			return Bundle(bundle, log)
		}
		log.Warn("client bundle not found, serving welcome payload", "dir", cfg.Dir, "error", err)
	}

	return Welcome(version)
}

// Bundle раздает файлы из fsys; пути без расширения получают index.html
func Bundle(fsys fs.FS, log *slog.Logger) http.Handler {
	fileServer := http.FileServer(http.FS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fileMatcher.MatchString(r.URL.Path) {
			fileServer.ServeHTTP(w, r)
			return
		}

		p, err := fs.ReadFile(fsys, indexFile)
		if err != nil {
			log.ErrorContext(r.Context(), "index.html not found", "error", err)
			status := http.StatusInternalServerError
			if errors.Is(err, fs.ErrNotExist) {
				status = http.StatusNotFound
			}
			http.Error(w, http.StatusText(status), status)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(p)
	})
}

// Welcome отвечает описанием API
func Welcome(version string) http.Handler {
	payload := todosv1.WelcomeResponse{
		Message: "Welcome to the Todo API!",
		Version: version,
		Endpoints: map[string]string{
			"todos": todosv1.BasePath,
		},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	})
}
