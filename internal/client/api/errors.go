package api

import (
	"errors"
	"net/http"
)

var (
	// ErrUnavailable covers transport failures and unreadable responses.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthenticated is returned when the server rejects the session.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// APIError is a {success:false} answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	return nil
}

// Message returns the server's message for err, if it carries one.
func Message(err error) (string, bool) {
	var ae *APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message, true
	}
	return "", false
}
