package api

import "time"

type Course struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Category   *string    `json:"category"`
	Summary    *string    `json:"summary"`
	Enrolled   *bool      `json:"enrolled,omitempty"`
	EnrolledAt *time.Time `json:"enrolled_at,omitempty"`
}

type SessionInfo struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
}

type CourseList struct {
	Enrolled []Course `json:"enrolled"`
	Catalog  []Course `json:"catalog"`
}

type CourseDetail struct {
	Course   Course   `json:"course"`
	Enrolled []Course `json:"enrolled"`
}

type Registration struct {
	FirstName        string
	LastName         string
	Email            string
	Password         string
	ConfirmPassword  string
	SecurityQuestion string
	SecurityAnswer   string
}
