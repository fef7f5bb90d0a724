package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Anggit1/Toko-baju/internal/domain/entity"
	"github.com/Anggit1/Toko-baju/internal/domain/service"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/logger"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/response"
)

const callerKey contextKey = "caller"

// WithCaller stores the resolved caller in the request context
func WithCaller(ctx context.Context, caller *entity.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFromContext returns the caller stored by Authenticate
func CallerFromContext(ctx context.Context) (*entity.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(*entity.Caller)
	return caller, ok && caller != nil
}

// Authenticate resolves the bearer token of each request into a caller.
// Requests without a resolvable caller are rejected with 401.
func Authenticate(provider service.IdentityProvider, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			token, ok := bearerToken(r)
			if !ok {
				log.Warn("Missing bearer token", map[string]interface{}{
					"request_id": requestID,
					"path":       r.URL.Path,
				})
				response.JSON(w, response.Error(http.StatusUnauthorized, response.MessageUnauthenticated))
				return
			}

			caller, err := provider.ResolveToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, entity.ErrUnknownAdminFlag) {
					log.Warn("Caller could not be resolved", map[string]interface{}{
						"request_id": requestID,
						"error":      err.Error(),
					})
					response.JSON(w, response.Error(http.StatusUnauthorized, response.MessageUnauthenticated))
					return
				}

				log.Error("Identity provider failure", map[string]interface{}{
					"request_id": requestID,
					"error":      err.Error(),
				})
				response.JSON(w, response.Error(http.StatusInternalServerError, response.MessageInternal))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// RequireAdmin lets only administrators through. It must run after Authenticate.
func RequireAdmin(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				response.JSON(w, response.Error(http.StatusUnauthorized, response.MessageUnauthenticated))
				return
			}

			if !caller.IsAdmin {
				log.Warn("Administrator route refused", map[string]interface{}{
					"request_id": GetRequestID(r.Context()),
					"caller_id":  caller.ID,
					"method":     r.Method,
					"path":       r.URL.Path,
				})
				response.JSON(w, response.Error(http.StatusForbidden, response.MessageAdminRequired))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "

	header := r.Header.Get("Authorization")
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
