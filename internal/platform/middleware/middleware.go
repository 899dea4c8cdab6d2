// Package middleware carries the HTTP middleware chain: request-scoped time
// and id, token authentication, and role gates.
package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "docroute/pkg/domain-errors"
	"docroute/pkg/requestcontext"
)

// RequestTime captures one timestamp at the start of the request so every
// operation inside it shares the same "now".
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID tags each request with a generated id for log correlation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithRequestID(r.Context(), uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenValidator validates a bearer token into claims.
type TokenValidator interface {
	Validate(tokenString string) (ClaimsView, error)
}

// ClaimsView is the identity slice middleware needs from a validated token.
type ClaimsView struct {
	UserID   string
	Username string
	Role     string
	Division string
}

// RequireAuth rejects requests without a valid bearer token and attaches the
// viewer identity to the context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			claims, err := validator.Validate(token)
			if err != nil {
				logger.WarnContext(r.Context(), "token rejected",
					"request_id", requestcontext.RequestID(r.Context()))
				writeAuthError(w, http.StatusUnauthorized, dErrors.MessageOf(err))
				return
			}
			ctx := requestcontext.WithViewer(r.Context(), requestcontext.Viewer{
				UserID:   claims.UserID,
				Username: claims.Username,
				Role:     claims.Role,
				Division: claims.Division,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole allows only viewers holding one of the given roles. Must run
// after RequireAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, ok := requestcontext.ViewerFrom(r.Context())
			if !ok || !allowed[viewer.Role] {
				writeAuthError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
