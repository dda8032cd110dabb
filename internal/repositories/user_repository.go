package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/learndash/backend/internal/models"
	"go.uber.org/zap"
)

type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a user with its enrolled course ids in enrollment order
func (r *userRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx, "SELECT id FROM users WHERE id = ? LIMIT 1", id).Scan(&user.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	query := `
		SELECT course_id
		FROM user_enrolled_courses
		WHERE user_id = ?
		ORDER BY enrolled_at, course_id
	`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to query enrolled courses", zap.Int("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to query enrolled courses: %w", err)
	}
	defer rows.Close()

	user.EnrolledCourses = []int{}
	for rows.Next() {
		var courseID int
		if err := rows.Scan(&courseID); err != nil {
			return nil, fmt.Errorf("failed to scan enrolled course: %w", err)
		}
		user.EnrolledCourses = append(user.EnrolledCourses, courseID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &user, nil
}

// AddEnrolledCourse appends a course id to the user's enrollments.
//
// The (user_id, course_id) primary key makes the append atomic: a second insert of the
// same pair fails with ErrAlreadyEnrolled instead of creating a duplicate.
func (r *userRepository) AddEnrolledCourse(ctx context.Context, userID, courseID int) error {
	query := "INSERT INTO user_enrolled_courses (user_id, course_id) VALUES (?, ?)"

	if _, err := r.db.ExecContext(ctx, query, userID, courseID); err != nil {
		if _, ok := duplicateKey(err); ok {
			return models.ErrAlreadyEnrolled
		}
		return fmt.Errorf("failed to enroll user: %w", err)
	}

	return nil
}
