package models

import "time"

// Session is the server-side record behind a session cookie. FirstName and
// Email are cached so session checks need no database round trip.
type Session struct {
	ID        string    `json:"-"`
	UserID    int64     `json:"user_id"`
	FirstName string    `json:"first_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
