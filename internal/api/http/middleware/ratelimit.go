package middleware

import (
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	todosv1 "todo-service/pkg/todos/v1"
)

// RateLimit ограничивает количество запросов (rate limiting)
// rps - запросов в секунду, burst - разрешает кратковременные всплески
func RateLimit(next http.Handler, rps int, burst int, log *slog.Logger) http.Handler {
	if rps <= 0 {
		rps = 100
	}
	if burst <= 0 {
		burst = 10
	}
	if log == nil {
		log = slog.Default()
	}

	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			log.WarnContext(r.Context(), "rate limit exceeded", "path", r.URL.Path, "remote", r.RemoteAddr)
			writeError(w, http.StatusTooManyRequests, "too many requests", todosv1.CodeRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}
