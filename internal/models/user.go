package models

// Role is the access level carried in an access token
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated caller attached to a request
type Identity struct {
	ID   int  `json:"id"`
	Role Role `json:"role"`
}

// User represents a learner and the courses they are enrolled in.
//
// EnrolledCourses keeps enrollment order and never contains the same course id twice.
type User struct {
	ID              int   `json:"id"`
	EnrolledCourses []int `json:"enrolledCourses"`
}
