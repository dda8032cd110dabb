package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/learndash/backend/internal/models"
	"go.uber.org/zap"
)

// CourseRepository is the interface that wraps methods for courses table data access
type CourseRepository interface {
	// Method GetAll retrieve every course ordered by course id.
	//
	// An empty catalog is returned as an empty, non-nil slice.
	GetAll(ctx context.Context) ([]models.Course, error)
	// Method GetByCourseIDs retrieve the courses whose course id is in "ids", ordered by course id.
	//
	// Ids without a matching course are skipped.
	GetByCourseIDs(ctx context.Context, ids []int) ([]models.Course, error)
	// Method GetBySlug retrieve a course by its slug.
	//
	// If no course matches, models.ErrCourseNotFound is returned.
	GetBySlug(ctx context.Context, slug string) (*models.Course, error)
	// Method GetByCourseID retrieve a course by its public course id.
	//
	// If no course matches, models.ErrCourseNotFound is returned.
	GetByCourseID(ctx context.Context, courseID int) (*models.Course, error)
	// Method ExistsByCourseID check whether a course with "courseID" is already stored.
	ExistsByCourseID(ctx context.Context, courseID int) (bool, error)
	// Method ExistsByName check whether a course named "name" is already stored.
	ExistsByName(ctx context.Context, name string) (bool, error)
	// Method Create insert a new course.
	//
	// A unique key violation is reported as models.ErrDuplicateCourseID, models.ErrDuplicateCourseName or models.ErrDuplicateCourseSlug.
	Create(ctx context.Context, course *models.Course) error
	// Method Delete remove a course by its course id.
	//
	// If nothing was deleted, models.ErrCourseNotFound is returned.
	Delete(ctx context.Context, courseID int) error
}

// UserRepository is the interface that wraps methods for users and enrollments data access
type UserRepository interface {
	// Method GetByID retrieve a user together with the enrolled course ids in enrollment order.
	//
	// If the user does not exist, models.ErrUserNotFound is returned.
	GetByID(ctx context.Context, id int) (*models.User, error)
	// Method AddEnrolledCourse append "courseID" to the user's enrollments.
	//
	// If the user is already enrolled, models.ErrAlreadyEnrolled is returned and nothing changes.
	AddEnrolledCourse(ctx context.Context, userID int, courseID int) error
}

type courseService struct {
	courseRepo CourseRepository
	userRepo   UserRepository
	logger     *zap.Logger
}

// NewCourseService creates a new course service
func NewCourseService(courseRepo CourseRepository, userRepo UserRepository, logger *zap.Logger) *courseService {
	return &courseService{
		courseRepo: courseRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// Create validates the request and adds the course to the catalog.
//
// Checks run in a fixed order: required fields, course id uniqueness, name uniqueness, slug format.
// The store's unique keys still decide when two creates race past the checks.
func (s *courseService) Create(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	if req.CourseID == 0 || req.CourseName == "" || req.Slug == "" ||
		req.SyllabusPDF == "" || req.MaterialPDF == "" || req.PlaylistURL == "" {
		return nil, models.NewValidationError("All fields are required")
	}

	courseID := int(req.CourseID)

	exists, err := s.courseRepo.ExistsByCourseID(ctx, courseID)
	if err != nil {
		s.logger.Error("failed to check course id", zap.Int("course_id", courseID), zap.Error(err))
		return nil, fmt.Errorf("failed to check course id: %w", err)
	}
	if exists {
		return nil, models.ErrDuplicateCourseID
	}

	exists, err = s.courseRepo.ExistsByName(ctx, req.CourseName)
	if err != nil {
		s.logger.Error("failed to check course name", zap.String("course_name", req.CourseName), zap.Error(err))
		return nil, fmt.Errorf("failed to check course name: %w", err)
	}
	if exists {
		return nil, models.ErrDuplicateCourseName
	}

	if !slug.IsSlug(req.Slug) {
		return nil, models.NewValidationError("Slug must be URL-safe")
	}

	course := &models.Course{
		CourseID:    courseID,
		CourseName:  req.CourseName,
		Slug:        req.Slug,
		SyllabusPDF: req.SyllabusPDF,
		MaterialPDF: req.MaterialPDF,
		PlaylistURL: req.PlaylistURL,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course created", zap.Int("course_id", course.CourseID), zap.String("slug", course.Slug))
	return course, nil
}

// Enroll appends courseID to the enrollments of the user identified by userID.
//
// The course itself is not looked up.
func (s *courseService) Enroll(ctx context.Context, userID int, courseID int) error {
	if courseID == 0 {
		return models.NewValidationError("Course ID is required")
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return err
		}
		s.logger.Error("failed to get user", zap.Int("user_id", userID), zap.Error(err))
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.userRepo.AddEnrolledCourse(ctx, userID, courseID); err != nil {
		if errors.Is(err, models.ErrAlreadyEnrolled) {
			return err
		}
		s.logger.Error("failed to enroll user", zap.Int("user_id", userID), zap.Int("course_id", courseID), zap.Error(err))
		return fmt.Errorf("failed to enroll user: %w", err)
	}

	return nil
}

// GetAll returns the whole catalog ordered by course id
func (s *courseService) GetAll(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get all courses", zap.Error(err))
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}
	return courses, nil
}

// GetBySlug returns the course whose slug matches exactly
func (s *courseService) GetBySlug(ctx context.Context, courseSlug string) (*models.Course, error) {
	course, err := s.courseRepo.GetBySlug(ctx, courseSlug)
	if err != nil {
		if errors.Is(err, models.ErrCourseNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get course by slug", zap.String("slug", courseSlug), zap.Error(err))
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

// GetByID returns the course with the given course id
func (s *courseService) GetByID(ctx context.Context, courseID int) (*models.Course, error) {
	course, err := s.courseRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		if errors.Is(err, models.ErrCourseNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get course by id", zap.Int("course_id", courseID), zap.Error(err))
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

// GetMyCourses returns the catalog courses the user is enrolled in, ordered by course id.
//
// Enrollments pointing at deleted courses are skipped.
func (s *courseService) GetMyCourses(ctx context.Context, userID int) ([]models.Course, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get user", zap.Int("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	courses, err := s.courseRepo.GetByCourseIDs(ctx, user.EnrolledCourses)
	if err != nil {
		s.logger.Error("failed to get enrolled courses", zap.Int("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}
	return courses, nil
}

// Delete removes the course with the given course id
func (s *courseService) Delete(ctx context.Context, courseID int) error {
	if err := s.courseRepo.Delete(ctx, courseID); err != nil {
		if errors.Is(err, models.ErrCourseNotFound) {
			return err
		}
		s.logger.Error("failed to delete course", zap.Int("course_id", courseID), zap.Error(err))
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.logger.Info("course deleted", zap.Int("course_id", courseID))
	return nil
}
