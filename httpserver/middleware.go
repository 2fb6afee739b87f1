package httpserver

import (
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/blockward/blockward-backend/api"
)

// RequestSizeLimit rejects bodies larger than maxBytes with 413.
func RequestSizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Max-Request-Size", strconv.FormatInt(maxBytes, 10))

			if r.ContentLength > maxBytes {
				api.WriteJSON(w, http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: "Request body too large"})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit limits requests per second across all clients. A non-positive
// rate disables it.
func RateLimit(requestsPerSecond float64, burst int, log *slog.Logger) func(http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	if burst < 1 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Warn("Rate limit exceeded", "remoteAddr", r.RemoteAddr, "path", r.URL.Path)
				w.Header().Set("Retry-After", "1")
				api.WriteJSON(w, http.StatusTooManyRequests, api.ErrorResponse{Error: "Too many requests. Please try again later."})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
