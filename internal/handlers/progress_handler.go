package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	authMiddleware "github.com/learndash/backend/internal/auth/middleware"
	"github.com/learndash/backend/internal/models"
	"go.uber.org/zap"
)

// ProgressService is the interface that wraps the progress dashboard business logic
type ProgressService interface {
	// GetDashboard builds the dashboard view model of the caller
	//
	// "ctx" is the context for the request.
	// "token" is the caller's access token, forwarded to the progress API.
	//
	// Missing progress data is replaced with placeholders, so only a cancelled request fails.
	GetDashboard(ctx context.Context, token string) (*models.ProgressDashboard, error)
}

// ProgressHandler handles HTTP requests for the progress dashboard
type ProgressHandler struct {
	BaseHandler
	service ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(svc ProgressService, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all progress handler routes
func (h *ProgressHandler) RegisterRoutes(r chi.Router, authMW func(http.Handler) http.Handler) {
	r.Route("/api/progress", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/dashboard", h.GetDashboard)
	})
}

// GetDashboard handles GET /api/progress/dashboard
// @Summary Get the progress dashboard
// @Description Summary cards, progress rings and the last 7 days study chart of the authenticated user.
// @Description Placeholder data is returned when the progress API has none.
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ProgressDashboard
// @Failure 401 {object} models.MessageResponse
// @Failure 500 {object} models.MessageResponse
// @Router /api/progress/dashboard [get]
func (h *ProgressHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.GetDashboard(r.Context(), authMiddleware.BearerToken(r))
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, dashboard)
}
