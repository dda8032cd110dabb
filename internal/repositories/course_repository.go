package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/learndash/backend/internal/models"
	"go.uber.org/zap"
)

const courseColumns = "course_id, course_name, slug, syllabus_pdf, material_pdf, playlist_url"

type courseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB, logger *zap.Logger) *courseRepository {
	return &courseRepository{
		db:     db,
		logger: logger,
	}
}

// GetAll retrieves every course ordered by course id
func (r *courseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY course_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to query courses", zap.Error(err))
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

// GetByCourseIDs retrieves the courses whose course id is in ids, ordered by course id.
//
// Unknown ids are skipped. An empty ids slice returns an empty result without touching the database.
func (r *courseRepository) GetByCourseIDs(ctx context.Context, ids []int) ([]models.Course, error) {
	if len(ids) == 0 {
		return []models.Course{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT %s FROM courses WHERE course_id IN (%s) ORDER BY course_id`,
		courseColumns, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query courses by ids", zap.Error(err))
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows)
}

// GetBySlug retrieves a course by its slug
func (r *courseRepository) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE slug = ? LIMIT 1`
	return r.getOne(ctx, query, slug)
}

// GetByCourseID retrieves a course by its public course id
func (r *courseRepository) GetByCourseID(ctx context.Context, courseID int) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE course_id = ? LIMIT 1`
	return r.getOne(ctx, query, courseID)
}

func (r *courseRepository) getOne(ctx context.Context, query string, arg any) (*models.Course, error) {
	var course models.Course
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&course.CourseID,
		&course.CourseName,
		&course.Slug,
		&course.SyllabusPDF,
		&course.MaterialPDF,
		&course.PlaylistURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return &course, nil
}

// ExistsByCourseID checks if a course with the given course id exists
func (r *courseRepository) ExistsByCourseID(ctx context.Context, courseID int) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM courses WHERE course_id = ?)"
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check course existence: %w", err)
	}
	return exists, nil
}

// ExistsByName checks if a course with the given name exists
func (r *courseRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM courses WHERE course_name = ?)"
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check course existence: %w", err)
	}
	return exists, nil
}

// Create inserts a new course.
//
// The unique keys on course_id, course_name and slug are the source of truth for uniqueness:
// a duplicate entry is reported as ErrDuplicateCourseID, ErrDuplicateCourseName or ErrDuplicateCourseSlug.
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (course_id, course_name, slug, syllabus_pdf, material_pdf, playlist_url)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		course.CourseID,
		course.CourseName,
		course.Slug,
		course.SyllabusPDF,
		course.MaterialPDF,
		course.PlaylistURL,
	)
	if err != nil {
		if key, ok := duplicateKey(err); ok {
			switch {
			case strings.Contains(key, "uk_courses_course_id"):
				return models.ErrDuplicateCourseID
			case strings.Contains(key, "uk_courses_course_name"):
				return models.ErrDuplicateCourseName
			case strings.Contains(key, "uk_courses_slug"):
				return models.ErrDuplicateCourseSlug
			}
		}
		r.logger.Error("failed to create course", zap.Int("course_id", course.CourseID), zap.Error(err))
		return fmt.Errorf("failed to create course: %w", err)
	}

	return nil
}

// Delete deletes a course by its course id
func (r *courseRepository) Delete(ctx context.Context, courseID int) error {
	query := "DELETE FROM courses WHERE course_id = ?"

	result, err := r.db.ExecContext(ctx, query, courseID)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrCourseNotFound
	}

	return nil
}

func scanCourses(rows *sql.Rows) ([]models.Course, error) {
	courses := []models.Course{}
	for rows.Next() {
		var course models.Course
		err := rows.Scan(
			&course.CourseID,
			&course.CourseName,
			&course.Slug,
			&course.SyllabusPDF,
			&course.MaterialPDF,
			&course.PlaylistURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return courses, nil
}
