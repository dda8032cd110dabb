package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Course represents a course in the catalog
type Course struct {
	CourseID    int    `json:"courseId"`
	CourseName  string `json:"courseName"`
	Slug        string `json:"slug"`
	SyllabusPDF string `json:"syllabusPDF"`
	MaterialPDF string `json:"materialPDF"`
	PlaylistURL string `json:"playlistURL"`
}

// CourseID is a course identifier in a request body.
//
// Clients send it either as a JSON number or as a numeric string ("12").
// Values outside the 32-bit range of the course_id column are rejected.
type CourseID int

// UnmarshalJSON accepts a number, a numeric string or null
func (c *CourseID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*c = 0
			return nil
		}
	}

	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid course id %q", raw)
	}
	*c = CourseID(id)
	return nil
}

// CreateCourseRequest represents a request to add a course to the catalog
type CreateCourseRequest struct {
	CourseID    CourseID `json:"courseId"`
	CourseName  string   `json:"courseName"`
	Slug        string   `json:"slug"`
	SyllabusPDF string   `json:"syllabusPDF"`
	MaterialPDF string   `json:"materialPDF"`
	PlaylistURL string   `json:"playlistURL"`
}

// EnrollRequest represents a request to enroll the current user in a course
type EnrollRequest struct {
	CourseID CourseID `json:"courseId"`
}

// CourseResponse wraps a single course
type CourseResponse struct {
	Message string  `json:"message,omitempty"`
	Course  *Course `json:"course"`
}

// CoursesResponse wraps a list of courses
type CoursesResponse struct {
	Courses []Course `json:"courses"`
}

// MessageResponse is a body carrying only a human readable message
type MessageResponse struct {
	Message string `json:"message"`
}
