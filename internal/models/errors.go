package models

import "errors"

var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrAlreadyEnrolled     = errors.New("user is already enrolled in this course")
	ErrDuplicateCourseID   = errors.New("course id already exists")
	ErrDuplicateCourseName = errors.New("course name already exists")
	ErrDuplicateCourseSlug = errors.New("course slug already exists")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("insufficient permissions")
)

// ValidationError is returned for bad client input; Message is safe to show to the client
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}
