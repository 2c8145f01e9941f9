// Package common contains shared constants and sentinel errors used across
// studentcrm server and client components.
package common

// SessionCookieName is the default name of the HTTP-only cookie carrying the
// signed session token.
const SessionCookieName = "studentcrm_session"

// SessionIDBytes is the number of random bytes behind a session id. The hex
// form is twice as long.
const SessionIDBytes = 32
