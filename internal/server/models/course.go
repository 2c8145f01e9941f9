package models

import "time"

// Course is a catalog row, optionally annotated for one user.
//
// Enrolled is only set on user-scoped reads; EnrolledAt only on rows coming
// from the user's enrollment ledger.
type Course struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Category   *string    `json:"category"`
	Summary    *string    `json:"summary"`
	Enrolled   *bool      `json:"enrolled,omitempty"`
	EnrolledAt *time.Time `json:"enrolled_at,omitempty"`
}

// CourseList is the dashboard view: what the user is enrolled in, plus the
// whole catalog flagged per course.
type CourseList struct {
	Enrolled []Course
	Catalog  []Course
}

// CourseDetail is a single catalog course with the user's enrolled list, so
// clients can refresh both panels from one call.
type CourseDetail struct {
	Course   Course
	Enrolled []Course
}

// EnrollStatus is the outcome of an enroll request.
type EnrollStatus int

const (
	Enrolled EnrollStatus = iota + 1
	AlreadyEnrolled
)

func (s EnrollStatus) String() string {
	switch s {
	case Enrolled:
		return "enrolled"
	case AlreadyEnrolled:
		return "already_enrolled"
	default:
		return "unknown"
	}
}
