package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/studentcrm/internal/logging"
	"github.com/dmitrijs2005/studentcrm/internal/server/auth"
	"github.com/dmitrijs2005/studentcrm/internal/server/cache"
	"github.com/dmitrijs2005/studentcrm/internal/server/config"
	"github.com/dmitrijs2005/studentcrm/internal/server/models"
	"github.com/dmitrijs2005/studentcrm/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var bootstrapTitles = []string{
	"Python Fundamentals",
	"Data Structures & Algorithms",
	"C Programming Essentials",
	"C++ Programming Fundamentals",
}

func testCatalog() []models.Course {
	return []models.Course{
		{Title: "Python Fundamentals"},
		{Title: "Data Structures & Algorithms"},
		{Title: "C Programming Essentials"},
		{Title: "C++ Programming Fundamentals"},
		{Title: "Java Programming"},
		{Title: "Web Development Basics"},
	}
}

type env struct {
	db       *sql.DB
	mock     sqlmock.Sqlmock
	redis    *miniredis.Miniredis
	rm       *repomanager.InMemoryRepositoryManager
	cfg      *config.Config
	hasher   *auth.Hasher
	sessions *SessionService
	users    *UserService
	recovery *RecoveryService
	courses  *CourseService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	client, err := cache.Connect(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.SessionTTL = time.Hour
	cfg.RecoveryTTL = 10 * time.Minute
	cfg.BootstrapCourses = bootstrapTitles

	rm := repomanager.NewInMemoryRepositoryManager(testCatalog())
	hasher := auth.NewHasher(bcrypt.MinCost)
	log := logging.Nop()

	sessions := NewSessionService(db, rm, cache.NewSessionStore(client), hasher, cfg, log)
	return &env{
		db:       db,
		mock:     mock,
		redis:    mr,
		rm:       rm,
		cfg:      cfg,
		hasher:   hasher,
		sessions: sessions,
		users:    NewUserService(db, rm, hasher, log),
		recovery: NewRecoveryService(db, rm, cache.NewRecoveryStore(client), hasher, cfg, log),
		courses:  NewCourseService(db, rm, sessions, cfg.BootstrapCourses, log),
	}
}

func validRegistration(email string) models.Registration {
	return models.Registration{
		FirstName:        "Ada",
		LastName:         "Lovelace",
		Email:            email,
		Password:         "pa55word",
		ConfirmPassword:  "pa55word",
		SecurityQuestion: "First pet?",
		SecurityAnswer:   "Fluffy",
	}
}

// register creates a user through UserService, which runs in a transaction.
func (e *env) register(t *testing.T, email string) *models.User {
	t.Helper()
	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
	u, err := e.users.Register(context.Background(), validRegistration(email))
	require.NoError(t, err)
	return u
}

// login registers email and returns a session token for it.
func (e *env) login(t *testing.T, email string) string {
	t.Helper()
	e.register(t, email)
	token, _, err := e.sessions.Authenticate(context.Background(), email, "pa55word")
	require.NoError(t, err)
	return token
}
