package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"
)

// AccessLog writes one line per API request. Health probes, metrics scrapes
// and websocket connections are skipped.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSkipLogging(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: 200}

		next.ServeHTTP(wrapped, r)

		log.Printf("[API] %s %s %d %dB %s", r.Method, r.URL.Path, wrapped.statusCode, wrapped.bytesWritten, time.Since(start).Round(time.Millisecond))
	})
}

func shouldSkipLogging(path string) bool {
	for _, prefix := range []string{"/health", "/metrics", "/ws/"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
