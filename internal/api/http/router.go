package http

import (
	"log/slog"
	"net/http"

	"todo-service/internal/api/http/middleware"
	"todo-service/internal/config"
	todosv1 "todo-service/pkg/todos/v1"
)

// NewRouter регистрирует маршруты API и оборачивает их в middleware.
// fallback обрабатывает GET запросы вне API (клиентская сборка или приветствие)
func NewRouter(h *Handler, fallback http.Handler, cfg *config.ConfigGateway, log *slog.Logger) http.Handler {
	if cfg == nil {
		cfg = &config.ConfigGateway{}
	}

	mux := http.NewServeMux()

	// API маршруты точнее "/", поэтому всегда имеют приоритет над fallback
	mux.HandleFunc("GET "+todosv1.BasePath, h.ListTasks)
	mux.HandleFunc("POST "+todosv1.BasePath, h.CreateTask)
	mux.HandleFunc("GET "+todosv1.BasePath+"/{id}", h.GetTask)
	mux.HandleFunc("PATCH "+todosv1.BasePath+"/{id}", h.UpdateTask)
	mux.HandleFunc("DELETE "+todosv1.BasePath+"/{id}", h.DeleteTask)
	mux.HandleFunc("/api/", h.NotFound)
	mux.HandleFunc("GET /healthz", h.Health)

	// "/" без метода: "GET /" конфликтует с "/api/"
	if fallback != nil {
		mux.Handle("/", readOnly(fallback))
	}

	// Применение middleware (в обратном порядке выполнения):
	// 1. Recovery (самый внешний слой)
	// 2. CORS
	// 3. Logging
	// 4. Rate Limiting
	var handler http.Handler = mux
	handler = middleware.RateLimit(handler, cfg.RateLimitRPS, cfg.RateLimitBurst, log)
	handler = middleware.Logging(handler, log)
	handler = middleware.CORS(handler, cfg)
	handler = middleware.Recovery(handler, log)

	return handler
}

func readOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			writeJSON(w, http.StatusMethodNotAllowed, todosv1.ErrorResponse{
				Error: "method not allowed",
				Code:  todosv1.CodeValidation,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
