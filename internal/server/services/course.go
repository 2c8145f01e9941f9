package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/studentcrm/internal/common"
	"github.com/dmitrijs2005/studentcrm/internal/logging"
	"github.com/dmitrijs2005/studentcrm/internal/server/models"
	"github.com/dmitrijs2005/studentcrm/internal/server/repositories/repomanager"
)

// SessionValidator resolves a session token to its session.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*models.Session, error)
}

// CourseService serves the dashboard: the enrolled list, the flagged catalog
// and enrollment. Every call is gated on a valid session.
type CourseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    SessionValidator
	bootstrap   []string
	log         logging.Logger
}

func NewCourseService(db *sql.DB, m repomanager.RepositoryManager, sessions SessionValidator,
	bootstrap []string, log logging.Logger) *CourseService {
	return &CourseService{
		db:          db,
		repomanager: m,
		sessions:    sessions,
		bootstrap:   bootstrap,
		log:         log,
	}
}

// ensureSeeded enrolls a user with an empty ledger in the bootstrap courses.
// Failures are logged and swallowed; the read goes on without them.
func (s *CourseService) ensureSeeded(ctx context.Context, userID int64) {
	repo := s.repomanager.Enrollments(s.db)

	n, err := repo.Count(ctx, userID)
	if err != nil {
		s.log.Warn(ctx, "enrollment count failed", "user_id", userID, "error", err)
		return
	}
	if n > 0 {
		return
	}

	seeded, err := repo.SeedDefaults(ctx, userID, s.bootstrap)
	if err != nil {
		s.log.Warn(ctx, "default enrollment failed", "user_id", userID, "error", err)
		return
	}
	if seeded > 0 {
		s.log.Info(ctx, "default courses enrolled", "user_id", userID, "count", seeded)
	}
}

func (s *CourseService) ListCourses(ctx context.Context, token string) (*models.CourseList, error) {
	sess, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	s.ensureSeeded(ctx, sess.UserID)

	enrolled, err := s.repomanager.Enrollments(s.db).ListForUser(ctx, sess.UserID)
	if err != nil {
		s.log.Error(ctx, "enrolled list failed", "user_id", sess.UserID, "error", err)
		return nil, common.ErrInternal
	}

	catalog, err := s.repomanager.Courses(s.db).ListForUser(ctx, sess.UserID)
	if err != nil {
		s.log.Error(ctx, "catalog list failed", "user_id", sess.UserID, "error", err)
		return nil, common.ErrInternal
	}

	return &models.CourseList{Enrolled: enrolled, Catalog: catalog}, nil
}

func (s *CourseService) CourseDetail(ctx context.Context, token string, courseID int64) (*models.CourseDetail, error) {
	sess, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	s.ensureSeeded(ctx, sess.UserID)

	if courseID <= 0 {
		return nil, common.ErrNotFound
	}

	course, err := s.repomanager.Courses(s.db).GetForUser(ctx, courseID, sess.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		s.log.Error(ctx, "course lookup failed", "course_id", courseID, "error", err)
		return nil, common.ErrInternal
	}

	enrolled, err := s.repomanager.Enrollments(s.db).ListForUser(ctx, sess.UserID)
	if err != nil {
		s.log.Error(ctx, "enrolled list failed", "user_id", sess.UserID, "error", err)
		return nil, common.ErrInternal
	}

	return &models.CourseDetail{Course: *course, Enrolled: enrolled}, nil
}

// Enroll adds the course to the user's ledger. Enrolling twice is not an
// error; the second call reports models.AlreadyEnrolled.
func (s *CourseService) Enroll(ctx context.Context, token string, courseID int64) (models.EnrollStatus, error) {
	sess, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return 0, common.ErrUnauthenticated
	}

	if courseID <= 0 {
		return 0, common.NewValidationError("Select a course to enroll.")
	}

	if _, err := s.repomanager.Courses(s.db).Get(ctx, courseID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 0, common.ErrNotFound
		}
		s.log.Error(ctx, "course lookup failed", "course_id", courseID, "error", err)
		return 0, common.ErrInternal
	}

	inserted, err := s.repomanager.Enrollments(s.db).Enroll(ctx, sess.UserID, courseID)
	if err != nil {
		s.log.Error(ctx, "enroll failed", "user_id", sess.UserID, "course_id", courseID, "error", err)
		return 0, common.ErrInternal
	}
	if !inserted {
		return models.AlreadyEnrolled, nil
	}

	s.log.Info(ctx, "user enrolled", "user_id", sess.UserID, "course_id", courseID)
	return models.Enrolled, nil
}
