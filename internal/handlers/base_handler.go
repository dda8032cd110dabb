package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/learndash/backend/internal/middlewares"
	"github.com/learndash/backend/internal/models"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, models.MessageResponse{Message: message})
}

// RespondServiceError translates an error returned by a service into a response.
//
// Known domain errors keep their client message, everything else becomes a logged 500.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.RespondError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, models.ErrDuplicateCourseID):
		h.RespondError(w, http.StatusBadRequest, "Course ID already exists")
	case errors.Is(err, models.ErrDuplicateCourseName):
		h.RespondError(w, http.StatusBadRequest, "Course name already exists")
	case errors.Is(err, models.ErrDuplicateCourseSlug):
		h.RespondError(w, http.StatusBadRequest, "Course slug already exists")
	case errors.Is(err, models.ErrAlreadyEnrolled):
		h.RespondError(w, http.StatusBadRequest, "User is already enrolled in this course")
	case errors.Is(err, models.ErrCourseNotFound):
		h.RespondError(w, http.StatusNotFound, "Course not found")
	case errors.Is(err, models.ErrUserNotFound):
		h.RespondError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, models.ErrUnauthorized):
		h.RespondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, models.ErrForbidden):
		h.RespondError(w, http.StatusForbidden, "insufficient permissions")
	default:
		h.Logger.Error("request failed",
			zap.String("request_id", middlewares.GetRequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
