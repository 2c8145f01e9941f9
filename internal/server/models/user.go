package models

import "time"

// User is a registered account. PasswordHash and SecurityAnswerHash are
// bcrypt hashes; the answer is hashed lower-cased.
type User struct {
	ID                 int64
	FirstName          string
	LastName           string
	Email              string
	PasswordHash       string
	SecurityQuestion   string
	SecurityAnswerHash string
	CreatedAt          time.Time
}

// Registration is the input of the registration flow.
type Registration struct {
	FirstName        string
	LastName         string
	Email            string
	Password         string
	ConfirmPassword  string
	SecurityQuestion string
	SecurityAnswer   string
}
