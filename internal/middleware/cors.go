package middleware

import (
	"net/http"

	"payments-monitor/internal/config"

	"github.com/rs/cors"
)

// RunIDHeader carries the report run id so dashboards can tell refreshes apart
const RunIDHeader = "X-Report-Run-ID"

func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	origins := cfg.Server.CorsAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: cfg.Server.CorsAllowedMethods,
		AllowedHeaders: cfg.Server.CorsAllowedHeaders,
		ExposedHeaders: []string{RunIDHeader},
		// Bearer tokens are sent explicitly, cookies are never used
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	})

	return c.Handler
}
