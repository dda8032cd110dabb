package middleware

import (
	"errors"
	"net/http"

	"github.com/learndash/backend/internal/auth/service"
	"github.com/learndash/backend/internal/models"
)

// RequireRole rejects requests whose identity does not hold the required role.
//
// It must run after AuthMiddleware; a request without identity is answered with 401.
func RequireRole(required models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var caller *models.Identity
			if identity, ok := GetIdentity(r.Context()); ok {
				caller = &identity
			}

			if err := service.Authorize(caller, required); err != nil {
				if errors.Is(err, models.ErrUnauthorized) {
					writeError(w, http.StatusUnauthorized, "authentication required")
					return
				}
				writeError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
