// File: internal/middleware/logger.go
package middleware

import (
	"log"
	"net/http"
	"time"
)

// LoggingMiddleware logs incoming HTTP request & response details.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf(
			"Request: %s %s from %s | Duration: %v | RequestID: %s",
			r.Method,
			r.RequestURI,
			r.RemoteAddr,
			time.Since(start),
			RequestIDFromContext(r.Context()),
		)
	})
}
