package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"

	"todo-service/internal/config"
)

// CORS настраивает CORS middleware используя конфигурацию
func CORS(next http.Handler, cfg *config.ConfigGateway) http.Handler {
	return newCORS(cfg).Handler(next)
}

func newCORS(cfg *config.ConfigGateway) *cors.Cors {
	if cfg == nil {
		cfg = &config.ConfigGateway{}
	}

	var origins []string
	allowAll := false
	for _, origin := range strings.Split(cfg.CORSAllowedOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
		}
		origins = append(origins, origin)
	}
	if len(origins) == 0 {
		origins = []string{"*"}
		allowAll = true
	}

	maxAge := cfg.CORSMaxAge
	if maxAge == 0 {
		maxAge = 86400 // 24 часа по умолчанию
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			"X-Requested-With",
		},
		// Credentials с "*" браузеры не принимают
		AllowCredentials: !allowAll,
		MaxAge:           maxAge,
	})
}
