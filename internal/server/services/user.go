package services

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/studentcrm/internal/common"
	"github.com/dmitrijs2005/studentcrm/internal/dbx"
	"github.com/dmitrijs2005/studentcrm/internal/logging"
	"github.com/dmitrijs2005/studentcrm/internal/server/auth"
	"github.com/dmitrijs2005/studentcrm/internal/server/models"
	"github.com/dmitrijs2005/studentcrm/internal/server/repositories/repomanager"
)

// UserService registers accounts.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.Hasher
	log         logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.Hasher, log logging.Logger) *UserService {
	return &UserService{db: db, repomanager: m, hasher: hasher, log: log}
}

var errPasswordTooLong = common.NewValidationError("Password must be at most 72 bytes long.")

// validEmail accepts a bare address only, no display name.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// Register validates reg and creates the user. Password and security answer
// are stored as bcrypt hashes.
func (s *UserService) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	reg.FirstName = strings.TrimSpace(reg.FirstName)
	reg.LastName = strings.TrimSpace(reg.LastName)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.SecurityQuestion = strings.TrimSpace(reg.SecurityQuestion)

	if reg.FirstName == "" || reg.LastName == "" || reg.Email == "" || reg.Password == "" ||
		reg.SecurityQuestion == "" || strings.TrimSpace(reg.SecurityAnswer) == "" {
		return nil, common.NewValidationError("All fields are required.")
	}
	if !validEmail(reg.Email) {
		return nil, common.NewValidationError("Please enter a valid email address.")
	}
	if reg.ConfirmPassword != "" && reg.ConfirmPassword != reg.Password {
		return nil, common.NewValidationError("Passwords do not match.")
	}
	if len(reg.Password) > auth.MaxSecretBytes {
		return nil, errPasswordTooLong
	}
	if len(auth.NormalizeAnswer(reg.SecurityAnswer)) > auth.MaxSecretBytes {
		return nil, common.NewValidationError("Security answer is too long.")
	}

	passwordHash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, common.ErrInternal
	}
	answerHash, err := s.hasher.Hash(auth.NormalizeAnswer(reg.SecurityAnswer))
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{
		FirstName:          reg.FirstName,
		LastName:           reg.LastName,
		Email:              reg.Email,
		PasswordHash:       passwordHash,
		SecurityQuestion:   reg.SecurityQuestion,
		SecurityAnswerHash: answerHash,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		if _, err := repo.GetByEmail(ctx, user.Email); err == nil {
			return common.ErrDuplicateEmail
		} else if !errors.Is(err, common.ErrNotFound) {
			return err
		}
		_, err := repo.Create(ctx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.NewValidationError("An account with this email already exists.")
		}
		s.log.Error(ctx, "registration failed", "error", err)
		return nil, common.ErrInternal
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}
