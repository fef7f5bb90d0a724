// Package middleware holds the HTTP middleware chain: request ids,
// access logging, panic recovery, and caller authentication.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/Anggit1/Toko-baju/internal/infrastructure/logger"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/response"
	"github.com/google/uuid"
)

// Keys for context values
type contextKey string

const (
	requestIDKey contextKey = "request_id"

	requestIDHeader = "X-Request-ID"
)

// RequestIDMiddleware tags each request with an ID, reusing the client's
// X-Request-ID when one is sent
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID)))
	})
}

// LoggingMiddleware writes one access log entry per request
func LoggingMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			wrapper := newResponseWrapper(w)

			next.ServeHTTP(wrapper, r)

			fields := map[string]interface{}{
				"request_id":     GetRequestID(r.Context()),
				"method":         r.Method,
				"path":           r.URL.Path,
				"query":          r.URL.RawQuery,
				"remote_addr":    r.RemoteAddr,
				"user_agent":     r.UserAgent(),
				"status":         wrapper.statusCode,
				"duration_ms":    time.Since(startTime).Milliseconds(),
				"content_length": wrapper.contentLength,
			}

			switch {
			case wrapper.statusCode >= http.StatusInternalServerError:
				log.Error("Request failed", fields)
			case wrapper.statusCode >= http.StatusBadRequest:
				log.Warn("Request rejected", fields)
			default:
				log.Info("Request served", fields)
			}
		})
	}
}

// RecoveryMiddleware turns a panic in a handler into a 500 envelope
func RecoveryMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("Panic recovered", map[string]interface{}{
						"request_id": GetRequestID(r.Context()),
						"method":     r.Method,
						"path":       r.URL.Path,
						"panic":      rec,
					})
					response.JSON(w, response.Error(http.StatusInternalServerError, response.MessageInternal))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// responseWrapper records the status code and body size written by a handler
type responseWrapper struct {
	http.ResponseWriter
	statusCode    int
	contentLength int64
}

func newResponseWrapper(w http.ResponseWriter) *responseWrapper {
	return &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWrapper) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWrapper) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.contentLength += int64(n)
	return n, err
}
