package service

import "github.com/learndash/backend/internal/models"

// Authorize decides whether identity may act with the required role.
//
// It returns nil when access is allowed, models.ErrUnauthorized for an anonymous
// identity and models.ErrForbidden when the role does not match.
func Authorize(identity *models.Identity, required models.Role) error {
	if identity == nil {
		return models.ErrUnauthorized
	}
	if identity.Role != required {
		return models.ErrForbidden
	}
	return nil
}
