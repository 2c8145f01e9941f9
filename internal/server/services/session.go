// Package services contains server-side business logic: sessions, accounts,
// password recovery and the session-gated course operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/studentcrm/internal/common"
	"github.com/dmitrijs2005/studentcrm/internal/logging"
	"github.com/dmitrijs2005/studentcrm/internal/server/auth"
	"github.com/dmitrijs2005/studentcrm/internal/server/config"
	"github.com/dmitrijs2005/studentcrm/internal/server/models"
	"github.com/dmitrijs2005/studentcrm/internal/server/repositories/repomanager"
)

// SessionStore persists session records. Get returns common.ErrNotFound for
// unknown or expired ids.
type SessionStore interface {
	Save(ctx context.Context, sess *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// SessionService issues, validates and destroys login sessions. The token
// handed to the client is a signed wrapper around the opaque session id.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       SessionStore
	hasher      *auth.Hasher
	secret      []byte
	ttl         time.Duration
	log         logging.Logger
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, store SessionStore,
	hasher *auth.Hasher, cfg *config.Config, log logging.Logger) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		store:       store,
		hasher:      hasher,
		secret:      []byte(cfg.SecretKey),
		ttl:         cfg.SessionTTL,
		log:         log,
	}
}

// TTL is the lifetime of newly issued sessions.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Authenticate checks credentials and starts a session.
func (s *SessionService) Authenticate(ctx context.Context, email, password string) (string, *models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, common.NewValidationError("Email and password are required.")
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil, common.ErrInvalidCredentials
		}
		s.log.Error(ctx, "login lookup failed", "error", err)
		return "", nil, common.ErrInternal
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		s.log.Warn(ctx, "stored password hash unreadable", "user_id", user.ID, "error", err)
		return "", nil, common.ErrInvalidCredentials
	}
	if !ok {
		return "", nil, common.ErrInvalidCredentials
	}

	id, err := common.MakeRandHexString(common.SessionIDBytes)
	if err != nil {
		return "", nil, common.ErrInternal
	}

	now := time.Now().UTC()
	sess := &models.Session{
		ID:        id,
		UserID:    user.ID,
		FirstName: user.FirstName,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		s.log.Error(ctx, "session save failed", "user_id", user.ID, "error", err)
		return "", nil, common.ErrInternal
	}

	token, err := auth.GenerateToken(id, s.secret, s.ttl)
	if err != nil {
		return "", nil, common.ErrInternal
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return token, sess, nil
}

// Validate resolves a token to its session without touching its expiry.
// Every failure is reported as common.ErrUnauthenticated.
func (s *SessionService) Validate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	id, err := auth.GetSessionIDFromToken(token, s.secret)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.log.Warn(ctx, "session lookup failed", "error", err)
		}
		return nil, common.ErrUnauthenticated
	}

	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		return nil, common.ErrUnauthenticated
	}

	return sess, nil
}

// Destroy ends the session behind token. It always succeeds from the
// caller's point of view.
func (s *SessionService) Destroy(ctx context.Context, token string) {
	if token == "" {
		return
	}
	id, err := auth.GetSessionIDFromToken(token, s.secret)
	if err != nil {
		return
	}
	if err := s.store.Delete(ctx, id); err != nil {
		s.log.Warn(ctx, "session delete failed", "error", err)
	}
}
