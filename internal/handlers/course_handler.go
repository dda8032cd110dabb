package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	authMiddleware "github.com/learndash/backend/internal/auth/middleware"
	"github.com/learndash/backend/internal/models"
	"go.uber.org/zap"
)

// CourseService is the interface that wraps methods for course catalog and enrollment business logic
type CourseService interface {
	// Create validates the request and adds a course to the catalog
	//
	// "ctx" is the context for the request.
	// "req" carries the six course fields, all of them required.
	//
	// Returns the stored course, or a *models.ValidationError, models.ErrDuplicateCourseID,
	// models.ErrDuplicateCourseName or models.ErrDuplicateCourseSlug.
	Create(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error)
	// Enroll appends a course to the enrollments of a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the authenticated user.
	// "courseID" is the public id of the course.
	//
	// Returns models.ErrUserNotFound or models.ErrAlreadyEnrolled on the expected failures.
	Enroll(ctx context.Context, userID int, courseID int) error
	// GetAll returns the whole catalog ordered by course id
	GetAll(ctx context.Context) ([]models.Course, error)
	// GetBySlug returns the course with the exact slug or models.ErrCourseNotFound
	GetBySlug(ctx context.Context, slug string) (*models.Course, error)
	// GetByID returns the course with the course id or models.ErrCourseNotFound
	GetByID(ctx context.Context, courseID int) (*models.Course, error)
	// GetMyCourses returns the courses a user is enrolled in ordered by course id
	GetMyCourses(ctx context.Context, userID int) ([]models.Course, error)
	// Delete removes a course or returns models.ErrCourseNotFound
	Delete(ctx context.Context, courseID int) error
}

// CourseHandler handles HTTP requests for the course catalog
type CourseHandler struct {
	BaseHandler
	service CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(svc CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all course handler routes.
//
// Every route needs authMW, add-course and delete additionally need adminMW.
func (h *CourseHandler) RegisterRoutes(r chi.Router, authMW func(http.Handler) http.Handler, adminMW func(http.Handler) http.Handler) {
	r.Route("/api/courses", func(r chi.Router) {
		r.Use(authMW)
		r.With(adminMW).Post("/add-course", h.Create)
		r.Post("/enroll", h.Enroll)
		r.Get("/all", h.GetAll)
		r.Get("/slug/{slug}", h.GetBySlug)
		r.Get("/my-courses", h.GetMyCourses)
		r.Get("/{courseId}", h.GetByID)
		r.With(adminMW).Delete("/{courseId}", h.Delete)
	})
}

// Create handles POST /api/courses/add-course
// @Summary Add a course
// @Description Add a course to the catalog. Admin only.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCourseRequest true "Course fields"
// @Success 201 {object} models.CourseResponse
// @Failure 400 {object} models.MessageResponse "Missing field, bad slug or duplicate course"
// @Failure 401 {object} models.MessageResponse
// @Failure 403 {object} models.MessageResponse
// @Failure 500 {object} models.MessageResponse
// @Router /api/courses/add-course [post]
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Debug("failed to decode create course request", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	course, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, models.CourseResponse{
		Message: "Course added successfully",
		Course:  course,
	})
}

// Enroll handles POST /api/courses/enroll
// @Summary Enroll in a course
// @Description Enroll the authenticated user in a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.EnrollRequest true "Course to enroll in"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.MessageResponse "Missing course id or already enrolled"
// @Failure 401 {object} models.MessageResponse
// @Failure 404 {object} models.MessageResponse "User not found"
// @Failure 500 {object} models.MessageResponse
// @Router /api/courses/enroll [post]
func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req models.EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Debug("failed to decode enroll request", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CourseID == 0 {
		h.RespondError(w, http.StatusBadRequest, "Course ID is required")
		return
	}

	identity, ok := authMiddleware.GetIdentity(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.Enroll(r.Context(), identity.ID, int(req.CourseID)); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, models.MessageResponse{Message: "Enrolled in course successfully"})
}

// GetAll handles GET /api/courses/all
// @Summary List courses
// @Description List every course ordered by course id
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CoursesResponse
// @Failure 401 {object} models.MessageResponse
// @Failure 500 {object} models.MessageResponse
// @Router /api/courses/all [get]
func (h *CourseHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.GetAll(r.Context())
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, models.CoursesResponse{Courses: nonNil(courses)})
}

// GetBySlug handles GET /api/courses/slug/{slug}
// @Summary Get a course by slug
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Course slug"
// @Success 200 {object} models.CourseResponse
// @Failure 401 {object} models.MessageResponse
// @Failure 404 {object} models.MessageResponse
// @Failure 500 {object} models.MessageResponse
// @Router /api/courses/slug/{slug} [get]
func (h *CourseHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	course, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, models.CourseResponse{Course: course})
}

// GetMyCourses handles GET /api/courses/my-courses
// @Summary List my courses
// @Description List the courses the authenticated user is enrolled in, ordered by course id
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CoursesResponse
// @Failure 401 {object} models.MessageResponse
// @Failure 404 {object} models.MessageResponse "User not found"
// @Failure 500 {object} models.MessageResponse
// @Router /api/courses/my-courses [get]
func (h *CourseHandler) GetMyCourses(w http.ResponseWriter, r *http.Request) {
	identity, ok := authMiddleware.GetIdentity(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	courses, err := h.service.GetMyCourses(r.Context(), identity.ID)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, models.CoursesResponse{Courses: nonNil(courses)})
}

// GetByID handles GET /api/courses/{courseId}
// @Summary Get a course by id
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} models.CourseResponse
// @Failure 401 {object} models.MessageResponse
// @Failure 404 {object} models.MessageResponse
// @Failure 500 {object} models.MessageResponse
// @Router /api/courses/{courseId} [get]
func (h *CourseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	courseID, ok := parseCourseID(r)
	if !ok {
		h.RespondError(w, http.StatusNotFound, "Course not found")
		return
	}

	course, err := h.service.GetByID(r.Context(), courseID)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, models.CourseResponse{Course: course})
}

// Delete handles DELETE /api/courses/{courseId}
// @Summary Delete a course
// @Description Delete a course from the catalog. Admin only.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.MessageResponse
// @Failure 403 {object} models.MessageResponse
// @Failure 404 {object} models.MessageResponse
// @Failure 500 {object} models.MessageResponse
// @Router /api/courses/{courseId} [delete]
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	courseID, ok := parseCourseID(r)
	if !ok {
		h.RespondError(w, http.StatusNotFound, "Course not found")
		return
	}

	if err := h.service.Delete(r.Context(), courseID); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, models.MessageResponse{Message: "Course deleted successfully"})
}

// parseCourseID reads the courseId path parameter; a non-integer value matches no course
func parseCourseID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "courseId"))
	if err != nil {
		return 0, false
	}
	return id, true
}

func nonNil(courses []models.Course) []models.Course {
	if courses == nil {
		return []models.Course{}
	}
	return courses
}
