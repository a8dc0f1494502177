package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ZertGraf/scrumboard/internal/api/handler"
	"github.com/ZertGraf/scrumboard/internal/domain"
	"github.com/ZertGraf/scrumboard/internal/pkg/logger"
	"github.com/ZertGraf/scrumboard/internal/session"
)

// Authenticate resolves the bearer token into a session and attaches it to
// the request context. Requests without a valid token pass through
// unauthenticated; RequireAuth decides whether that is acceptable.
func Authenticate(store *session.Store) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token != "" {
				if sess, ok := store.Get(token); ok {
					r = r.WithContext(session.WithSession(r.Context(), sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects unauthenticated requests.
func RequireAuth(logger *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := session.FromContext(r.Context()); !ok {
				logger.Warn("unauthenticated request rejected", "path", r.URL.Path)
				writeAuthError(w, http.StatusUnauthorized, handler.CodeUnauthorized, domain.ErrUnauthorized.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects sessions that do not carry the admin role. Employees
// never see the admin-only creation surfaces.
func RequireAdmin(logger *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, handler.CodeUnauthorized, domain.ErrUnauthorized.Error())
				return
			}
			if sess.Role != domain.RoleAdmin {
				logger.Warn("non-admin request to admin route",
					"path", r.URL.Path,
					"user_id", sess.UserID,
				)
				writeAuthError(w, http.StatusForbidden, handler.CodeForbidden, domain.ErrForbidden.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimPrefix(auth, prefix)
}

func writeAuthError(w http.ResponseWriter, status int, code handler.ErrorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(handler.ErrorResponse{
		Error: handler.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
