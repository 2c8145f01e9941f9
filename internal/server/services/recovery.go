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
	"github.com/dmitrijs2005/studentcrm/internal/server/repositories/repomanager"
)

// RecoveryGrants records which accounts passed the security question.
type RecoveryGrants interface {
	Grant(ctx context.Context, userID int64, ttl time.Duration) error
	Consume(ctx context.Context, userID int64) (bool, error)
}

// RecoveryService runs the three password recovery steps. Each step resolves
// the account for the email it is given and checks server-side state for
// that account; nothing is trusted from the client about which step it is on.
type RecoveryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	grants      RecoveryGrants
	hasher      *auth.Hasher
	ttl         time.Duration
	log         logging.Logger
}

func NewRecoveryService(db *sql.DB, m repomanager.RepositoryManager, grants RecoveryGrants,
	hasher *auth.Hasher, cfg *config.Config, log logging.Logger) *RecoveryService {
	return &RecoveryService{
		db:          db,
		repomanager: m,
		grants:      grants,
		hasher:      hasher,
		ttl:         cfg.RecoveryTTL,
		log:         log,
	}
}

// FetchQuestion returns the security question of the account.
func (s *RecoveryService) FetchQuestion(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", common.NewValidationError("Email is required to fetch security question.")
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrNotFound
		}
		s.log.Error(ctx, "recovery lookup failed", "error", err)
		return "", common.ErrInternal
	}
	return user.SecurityQuestion, nil
}

// VerifyAnswer checks the answer and opens a reset window for email.
func (s *RecoveryService) VerifyAnswer(ctx context.Context, email, answer string) error {
	email = strings.TrimSpace(email)
	answer = auth.NormalizeAnswer(answer)
	if email == "" || answer == "" {
		return common.NewValidationError("Email and answer are required.")
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		s.log.Error(ctx, "recovery lookup failed", "error", err)
		return common.ErrInternal
	}

	ok, err := s.hasher.Compare(user.SecurityAnswerHash, answer)
	if err != nil {
		s.log.Warn(ctx, "stored answer hash unreadable", "user_id", user.ID, "error", err)
	}
	if !ok {
		return common.NewValidationError("Security answer is incorrect.")
	}

	if err := s.grants.Grant(ctx, user.ID, s.ttl); err != nil {
		s.log.Error(ctx, "recovery grant failed", "user_id", user.ID, "error", err)
		return common.ErrInternal
	}
	return nil
}

// ResetPassword consumes the reset window of the account behind email and
// stores the new password. confirm is optional; when given it must match.
func (s *RecoveryService) ResetPassword(ctx context.Context, email, newPassword, confirm string) error {
	email = strings.TrimSpace(email)
	if email == "" || newPassword == "" {
		return common.NewValidationError("Email and new password are required.")
	}
	if confirm != "" && confirm != newPassword {
		return common.NewValidationError("Passwords do not match.")
	}
	if len(newPassword) > auth.MaxSecretBytes {
		return errPasswordTooLong
	}

	users := s.repomanager.Users(s.db)
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		s.log.Error(ctx, "recovery lookup failed", "error", err)
		return common.ErrInternal
	}

	ok, err := s.grants.Consume(ctx, user.ID)
	if err != nil {
		s.log.Error(ctx, "recovery grant lookup failed", "user_id", user.ID, "error", err)
		return common.ErrInternal
	}
	if !ok {
		return common.ErrRecoveryNotVerified
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.log.Error(ctx, "password hash failed", "user_id", user.ID, "error", err)
		return common.ErrInternal
	}

	if err := users.UpdatePassword(ctx, user.Email, hash); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		s.log.Error(ctx, "password update failed", "user_id", user.ID, "error", err)
		return common.ErrInternal
	}

	s.log.Info(ctx, "password reset", "user_id", user.ID)
	return nil
}
