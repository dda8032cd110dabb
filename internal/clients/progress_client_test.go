package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/learndash/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, status int, body string, gotAuth *string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotAuth != nil {
			*gotAuth = r.Header.Get("Authorization")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestProgressClient_FetchSummary(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		expected      *models.ProgressSummary
		expectedError string
	}{
		{
			name:   "summary",
			status: http.StatusOK,
			body:   `{"totalLessonsCompleted":5,"totalQuizzesTaken":4,"totalStudyTime":125,"totalPoints":80,"loginStreak":6,"currentStreak":3,"totalCheckIns":9}`,
			expected: &models.ProgressSummary{
				TotalLessonsCompleted: 5,
				TotalQuizzesTaken:     4,
				TotalStudyTime:        125,
				TotalPoints:           80,
				LoginStreak:           6,
				CurrentStreak:         3,
				TotalCheckIns:         9,
			},
		},
		{
			name:   "null summary",
			status: http.StatusOK,
			body:   `null`,
		},
		{
			name:          "server error",
			status:        http.StatusInternalServerError,
			body:          `{"message":"down"}`,
			expectedError: "returned 500",
		},
		{
			name:          "malformed body",
			status:        http.StatusOK,
			body:          `{"totalLessonsCompleted":`,
			expectedError: "failed to decode /summary response",
		},
		{
			name:          "oversized body",
			status:        http.StatusOK,
			body:          `{"totalLessonsCompleted":1,"note":"` + strings.Repeat("x", maxResponseBody) + `"}`,
			expectedError: "failed to decode /summary response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth string
			server := newTestServer(t, tt.status, tt.body, &gotAuth)
			client := NewProgressClient(server.URL+"/", nil, zap.NewNop())

			summary, err := client.FetchSummary(context.Background(), "tok")

			assert.Equal(t, "Bearer tok", gotAuth)
			if tt.expectedError != "" {
				assert.ErrorContains(t, err, tt.expectedError)
				assert.Nil(t, summary)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, summary)
		})
	}
}

func TestProgressClient_FetchStats(t *testing.T) {
	server := newTestServer(t, http.StatusOK,
		`[{"_id":"2025-07-01","lessonsCompleted":1,"quizzesTaken":2,"studyTime":30,"pointsEarned":10,"checkIns":1}]`, nil)
	client := NewProgressClient(server.URL, nil, zap.NewNop())

	stats, err := client.FetchStats(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, []models.DailyStat{
		{Date: "2025-07-01", LessonsCompleted: 1, QuizzesTaken: 2, StudyTime: 30, PointsEarned: 10, CheckIns: 1},
	}, stats)
}

func TestProgressClient_NoBaseURL(t *testing.T) {
	client := NewProgressClient("", nil, zap.NewNop())

	summary, err := client.FetchSummary(context.Background(), "tok")
	assert.NoError(t, err)
	assert.Nil(t, summary)

	stats, err := client.FetchStats(context.Background(), "tok")
	assert.NoError(t, err)
	assert.Nil(t, stats)
}

func TestProgressClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewProgressClient(url, nil, zap.NewNop())
	_, err := client.FetchStats(context.Background(), "tok")

	assert.ErrorContains(t, err, "failed to send request")
}
