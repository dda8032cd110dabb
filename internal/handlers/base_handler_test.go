package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/learndash/backend/internal/middlewares"
	"github.com/learndash/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBaseHandler_RespondServiceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
		expectLog      bool
	}{
		{"validation", models.NewValidationError("Slug must be URL-safe"), http.StatusBadRequest, `{"message":"Slug must be URL-safe"}`, false},
		{"duplicate id", models.ErrDuplicateCourseID, http.StatusBadRequest, `{"message":"Course ID already exists"}`, false},
		{"duplicate name", models.ErrDuplicateCourseName, http.StatusBadRequest, `{"message":"Course name already exists"}`, false},
		{"duplicate slug", models.ErrDuplicateCourseSlug, http.StatusBadRequest, `{"message":"Course slug already exists"}`, false},
		{"already enrolled", models.ErrAlreadyEnrolled, http.StatusBadRequest, `{"message":"User is already enrolled in this course"}`, false},
		{"wrapped course not found", fmt.Errorf("lookup: %w", models.ErrCourseNotFound), http.StatusNotFound, `{"message":"Course not found"}`, false},
		{"user not found", models.ErrUserNotFound, http.StatusNotFound, `{"message":"User not found"}`, false},
		{"unauthorized", models.ErrUnauthorized, http.StatusUnauthorized, `{"message":"Unauthorized"}`, false},
		{"forbidden", models.ErrForbidden, http.StatusForbidden, `{"message":"insufficient permissions"}`, false},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, `{"message":"internal server error"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.ErrorLevel)
			h := &BaseHandler{Logger: zap.New(core)}

			req := httptest.NewRequest(http.MethodGet, "/api/courses/all", nil)
			req = req.WithContext(middlewares.WithRequestID(req.Context(), "req-9"))
			w := httptest.NewRecorder()

			h.RespondServiceError(w, req, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			if tt.expectLog {
				require.Equal(t, 1, logs.Len())
				assert.Equal(t, "req-9", logs.All()[0].ContextMap()["request_id"])
			} else {
				assert.Zero(t, logs.Len())
			}
		})
	}
}
