package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/learndash/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockProgressService is a mock implementation of ProgressService
type mockProgressService struct {
	dashboard *models.ProgressDashboard
	err       error
	token     string
}

func (m *mockProgressService) GetDashboard(ctx context.Context, token string) (*models.ProgressDashboard, error) {
	m.token = token
	if m.err != nil {
		return nil, m.err
	}
	return m.dashboard, nil
}

func TestProgressHandler_GetDashboard(t *testing.T) {
	dashboard := &models.ProgressDashboard{
		State:                 models.DashboardReady,
		Summary:               models.ProgressSummary{TotalLessonsCompleted: 5},
		UsingPlaceholderStats: true,
		Cards:                 []models.StatCard{{Label: "Lessons Completed", Value: "5"}},
		OverallProgress:       5,
	}

	tests := []struct {
		name           string
		service        *mockProgressService
		expectedStatus int
	}{
		{
			name:           "success",
			service:        &mockProgressService{dashboard: dashboard},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "cancelled",
			service:        &mockProgressService{err: context.Canceled},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			NewProgressHandler(tt.service, zap.NewNop()).RegisterRoutes(r, identityFromHeader)

			req := httptest.NewRequest(http.MethodGet, "/api/progress/dashboard", nil)
			req.Header.Set("Authorization", "Bearer user-token")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "user-token", tt.service.token)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var got models.ProgressDashboard
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, *dashboard, got)

			var raw map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
			assert.Equal(t, "ready", raw["state"])
			assert.Equal(t, true, raw["usingPlaceholderStats"])
		})
	}
}
