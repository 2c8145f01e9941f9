// Package http is the JSON API adapter. It maps form and JSON requests onto
// the services and every outcome onto a {success, ...} response.
package http

import (
	"context"
	"time"

	"github.com/dmitrijs2005/studentcrm/internal/common"
	"github.com/dmitrijs2005/studentcrm/internal/logging"
	"github.com/dmitrijs2005/studentcrm/internal/server/models"
)

type SessionService interface {
	Authenticate(ctx context.Context, email, password string) (string, *models.Session, error)
	Validate(ctx context.Context, token string) (*models.Session, error)
	Destroy(ctx context.Context, token string)
	TTL() time.Duration
}

type UserService interface {
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
}

type RecoveryService interface {
	FetchQuestion(ctx context.Context, email string) (string, error)
	VerifyAnswer(ctx context.Context, email, answer string) error
	ResetPassword(ctx context.Context, email, newPassword, confirm string) error
}

type CourseService interface {
	ListCourses(ctx context.Context, token string) (*models.CourseList, error)
	CourseDetail(ctx context.Context, token string, courseID int64) (*models.CourseDetail, error)
	Enroll(ctx context.Context, token string, courseID int64) (models.EnrollStatus, error)
}

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

// Handler is the HTTP adapter entrypoint.
type Handler struct {
	sessions SessionService
	users    UserService
	recovery RecoveryService
	courses  CourseService
	cookie   CookieOptions
	log      logging.Logger
}

func NewHandler(sessions SessionService, users UserService, recovery RecoveryService,
	courses CourseService, cookie CookieOptions, log logging.Logger) *Handler {
	if cookie.Name == "" {
		cookie.Name = common.SessionCookieName
	}
	return &Handler{
		sessions: sessions,
		users:    users,
		recovery: recovery,
		courses:  courses,
		cookie:   cookie,
		log:      log.With("module", "http"),
	}
}
