package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	todosv1 "todo-service/pkg/todos/v1"
)

// Recovery перехватывает панику обработчика и отвечает 500
func Recovery(next http.Handler, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			// Прерванное клиентом соединение не ошибка обработчика
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			log.ErrorContext(r.Context(), "panic in http handler",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			writeError(w, http.StatusInternalServerError, "internal server error", todosv1.CodeInternal)
		}()

		next.ServeHTTP(w, r)
	})
}
