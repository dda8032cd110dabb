package integration

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/learndash/backend/internal/auth/middleware"
	"github.com/learndash/backend/internal/auth/service"
	"github.com/learndash/backend/internal/clients"
	"github.com/learndash/backend/internal/config"
	"github.com/learndash/backend/internal/handlers"
	"github.com/learndash/backend/internal/models"
	"github.com/learndash/backend/internal/repositories"
	"github.com/learndash/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminUserID = 1
	plainUserID = 2
)

var (
	testDB     *sql.DB
	testRouter chi.Router
	testTokens *service.TokenGenerator
)

// TestMain connects to the MySQL test database described by TEST_DB_* and applies the migrations.
// Without TEST_DB_HOST the tests in this package are skipped.
func TestMain(m *testing.M) {
	cfg, err := config.LoadTestConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load test config: %v", err))
	}

	testTokens = service.NewTokenGenerator(cfg.JWT.Secret, time.Hour)

	dsn := cfg.DSN()
	if dsn == "" {
		os.Exit(m.Run())
	}

	testDB, err = sql.Open("mysql", dsn)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to test database: %v", err))
	}
	if err = testDB.Ping(); err != nil {
		panic(fmt.Sprintf("Failed to ping test database: %v", err))
	}

	if err := migrateUp(testDB); err != nil {
		panic(fmt.Sprintf("Failed to migrate test database: %v", err))
	}

	testRouter = setupTestRouter(testDB, zap.NewNop())

	code := m.Run()

	testDB.Close()
	os.Exit(code)
}

func migrateUp(db *sql.DB) error {
	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://../../migrations", "mysql", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// setupTestRouter wires the real stack except the progress API, which is left unconfigured
func setupTestRouter(db *sql.DB, logger *zap.Logger) chi.Router {
	courseService := services.NewCourseService(
		repositories.NewCourseRepository(db, logger),
		repositories.NewUserRepository(db, logger),
		logger,
	)
	progressService := services.NewProgressService(
		clients.NewProgressClient("", nil, logger),
		services.DefaultDashboardFixtures(),
		logger,
	)

	authMW := middleware.AuthMiddleware(testTokens)
	adminMW := middleware.RequireRole(models.RoleAdmin)

	r := chi.NewRouter()
	handlers.NewCourseHandler(courseService, logger).RegisterRoutes(r, authMW, adminMW)
	handlers.NewProgressHandler(progressService, logger).RegisterRoutes(r, authMW)
	handlers.NewHealthHandler(db, logger).RegisterRoutes(r)
	return r
}

func requireDB(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	if testDB == nil {
		t.Skip("TEST_DB_HOST is not set")
	}
}

// resetData empties every table and recreates the two test users
func resetData(t *testing.T) {
	t.Helper()
	for _, q := range []string{
		"DELETE FROM user_enrolled_courses",
		"DELETE FROM courses",
		"DELETE FROM users",
	} {
		_, err := testDB.Exec(q)
		require.NoError(t, err, "Failed to clear test data")
	}
	_, err := testDB.Exec("INSERT INTO users (id) VALUES (?), (?)", adminUserID, plainUserID)
	require.NoError(t, err, "Failed to seed users")
}

func tokenFor(t *testing.T, id int, role models.Role) string {
	t.Helper()
	access, err := testTokens.GenerateAccessToken(models.Identity{ID: id, Role: role})
	require.NoError(t, err)
	return access
}

func call(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func courseBody(id int, name, slug string) string {
	return fmt.Sprintf(`{"courseId":%d,"courseName":%q,"slug":%q,"syllabusPDF":"s.pdf","materialPDF":"m.pdf","playlistURL":"https://youtube.com/p"}`,
		id, name, slug)
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func decodeCourses(t *testing.T, w *httptest.ResponseRecorder) []models.Course {
	t.Helper()
	var body models.CoursesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Courses
}

func TestIntegration_CreateCourse(t *testing.T) {
	requireDB(t)
	resetData(t)

	admin := tokenFor(t, adminUserID, models.RoleAdmin)
	user := tokenFor(t, plainUserID, models.RoleUser)

	w := call(t, http.MethodPost, "/api/courses/add-course", admin, courseBody(101, "Algebra", "algebra"))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Course added successfully", decodeMessage(t, w))

	tests := []struct {
		name            string
		token           string
		body            string
		expectedStatus  int
		expectedMessage string
	}{
		{"duplicate course id", admin, courseBody(101, "Other", "other"), http.StatusBadRequest, "Course ID already exists"},
		{"duplicate course name", admin, courseBody(102, "Algebra", "algebra-2"), http.StatusBadRequest, "Course name already exists"},
		{"duplicate slug", admin, courseBody(103, "Algebra II", "algebra"), http.StatusBadRequest, "Course slug already exists"},
		{"missing fields", admin, `{"courseName":"Geometry"}`, http.StatusBadRequest, "All fields are required"},
		{"bad slug", admin, courseBody(104, "Geometry", "Geometry 101"), http.StatusBadRequest, "Slug must be URL-safe"},
		{"non admin", user, courseBody(105, "Calculus", "calculus"), http.StatusForbidden, "insufficient permissions"},
		{"anonymous", "", courseBody(106, "Physics", "physics"), http.StatusUnauthorized, "authentication required"},
		{"bad token", "not-a-jwt", courseBody(107, "Biology", "biology"), http.StatusUnauthorized, "invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(t, http.MethodPost, "/api/courses/add-course", tt.token, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedMessage, decodeMessage(t, w))
		})
	}

	var count int
	require.NoError(t, testDB.QueryRow("SELECT COUNT(*) FROM courses").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestIntegration_ListAndGetCourses(t *testing.T) {
	requireDB(t)
	resetData(t)

	admin := tokenFor(t, adminUserID, models.RoleAdmin)
	user := tokenFor(t, plainUserID, models.RoleUser)

	w := call(t, http.MethodGet, "/api/courses/all", user, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"courses":[]}`, w.Body.String())

	for _, c := range []struct {
		id   int
		name string
		slug string
	}{{30, "Chemistry", "chemistry"}, {10, "Algebra", "algebra"}, {20, "Biology", "biology"}} {
		w := call(t, http.MethodPost, "/api/courses/add-course", admin, courseBody(c.id, c.name, c.slug))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w = call(t, http.MethodGet, "/api/courses/all", user, "")
	require.Equal(t, http.StatusOK, w.Code)
	courses := decodeCourses(t, w)
	require.Len(t, courses, 3)
	assert.Equal(t, []int{10, 20, 30}, []int{courses[0].CourseID, courses[1].CourseID, courses[2].CourseID})

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedID     int
	}{
		{"by id", "/api/courses/20", http.StatusOK, 20},
		{"by slug", "/api/courses/slug/chemistry", http.StatusOK, 30},
		{"unknown id", "/api/courses/99", http.StatusNotFound, 0},
		{"non integer id", "/api/courses/abc", http.StatusNotFound, 0},
		{"unknown slug", "/api/courses/slug/physics", http.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(t, http.MethodGet, tt.path, user, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				assert.Equal(t, "Course not found", decodeMessage(t, w))
				return
			}
			var body models.CourseResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.NotNil(t, body.Course)
			assert.Equal(t, tt.expectedID, body.Course.CourseID)
		})
	}
}

func TestIntegration_EnrollAndMyCourses(t *testing.T) {
	requireDB(t)
	resetData(t)

	admin := tokenFor(t, adminUserID, models.RoleAdmin)
	user := tokenFor(t, plainUserID, models.RoleUser)
	ghost := tokenFor(t, 999, models.RoleUser)

	for _, id := range []int{5, 3} {
		w := call(t, http.MethodPost, "/api/courses/add-course", admin, courseBody(id, fmt.Sprintf("Course %d", id), fmt.Sprintf("course-%d", id)))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := call(t, http.MethodGet, "/api/courses/my-courses", user, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"courses":[]}`, w.Body.String())

	tests := []struct {
		name            string
		token           string
		body            string
		expectedStatus  int
		expectedMessage string
	}{
		{"enroll first", user, `{"courseId":5}`, http.StatusOK, "Enrolled in course successfully"},
		{"enroll second as string", user, `{"courseId":"3"}`, http.StatusOK, "Enrolled in course successfully"},
		{"enroll twice", user, `{"courseId":5}`, http.StatusBadRequest, "User is already enrolled in this course"},
		{"missing course id", user, `{}`, http.StatusBadRequest, "Course ID is required"},
		{"unknown user", ghost, `{"courseId":5}`, http.StatusNotFound, "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(t, http.MethodPost, "/api/courses/enroll", tt.token, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedMessage, decodeMessage(t, w))
		})
	}

	w = call(t, http.MethodGet, "/api/courses/my-courses", user, "")
	require.Equal(t, http.StatusOK, w.Code)
	courses := decodeCourses(t, w)
	require.Len(t, courses, 2)
	assert.Equal(t, 3, courses[0].CourseID)
	assert.Equal(t, 5, courses[1].CourseID)

	w = call(t, http.MethodGet, "/api/courses/my-courses", ghost, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// a deleted course disappears from my-courses while the enrollment row stays
	w = call(t, http.MethodDelete, "/api/courses/5", admin, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = call(t, http.MethodGet, "/api/courses/my-courses", user, "")
	require.Equal(t, http.StatusOK, w.Code)
	courses = decodeCourses(t, w)
	require.Len(t, courses, 1)
	assert.Equal(t, 3, courses[0].CourseID)
}

func TestIntegration_DeleteCourse(t *testing.T) {
	requireDB(t)
	resetData(t)

	admin := tokenFor(t, adminUserID, models.RoleAdmin)
	user := tokenFor(t, plainUserID, models.RoleUser)

	w := call(t, http.MethodPost, "/api/courses/add-course", admin, courseBody(7, "Geometry", "geometry"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = call(t, http.MethodDelete, "/api/courses/7", user, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(t, http.MethodDelete, "/api/courses/7", admin, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Course deleted successfully", decodeMessage(t, w))

	w = call(t, http.MethodDelete, "/api/courses/7", admin, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Course not found", decodeMessage(t, w))

	w = call(t, http.MethodGet, "/api/courses/7", user, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIntegration_ProgressDashboardPlaceholders(t *testing.T) {
	requireDB(t)

	w := call(t, http.MethodGet, "/api/progress/dashboard", tokenFor(t, plainUserID, models.RoleUser), "")
	require.Equal(t, http.StatusOK, w.Code)

	var dashboard models.ProgressDashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dashboard))
	assert.Equal(t, models.DashboardReady, dashboard.State)
	assert.True(t, dashboard.UsingPlaceholderSummary)
	assert.True(t, dashboard.UsingPlaceholderStats)
	assert.Len(t, dashboard.Chart.Bars, 7)

	w = call(t, http.MethodGet, "/api/progress/dashboard", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIntegration_Health(t *testing.T) {
	requireDB(t)

	w := call(t, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
