package repomanager

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/studentcrm/internal/common"
	"github.com/dmitrijs2005/studentcrm/internal/dbx"
	"github.com/dmitrijs2005/studentcrm/internal/server/models"
	"github.com/dmitrijs2005/studentcrm/internal/server/repositories/courses"
	"github.com/dmitrijs2005/studentcrm/internal/server/repositories/enrollments"
	"github.com/dmitrijs2005/studentcrm/internal/server/repositories/users"
)

// InMemoryRepositoryManager keeps users, the catalog and the enrollment
// ledger in process memory. The DBTX passed to the factories is ignored.
// It mirrors the uniqueness rules of the PostgreSQL schema.
type InMemoryRepositoryManager struct {
	store *memStore
}

// NewInMemoryRepositoryManager returns a manager whose catalog holds the
// given courses. Courses without an id are numbered from 1.
func NewInMemoryRepositoryManager(catalog []models.Course) *InMemoryRepositoryManager {
	s := &memStore{
		courses:     map[int64]models.Course{},
		users:       map[int64]models.User{},
		enrollments: map[int64]map[int64]enrollment{},
	}
	var next int64
	for _, c := range catalog {
		if c.ID == 0 {
			next++
			c.ID = next
		} else if c.ID > next {
			next = c.ID
		}
		c.Enrolled = nil
		c.EnrolledAt = nil
		s.courses[c.ID] = c
	}
	return &InMemoryRepositoryManager{store: s}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return memUsers{m.store}
}

func (m *InMemoryRepositoryManager) Courses(dbx.DBTX) courses.Repository {
	return memCourses{m.store}
}

func (m *InMemoryRepositoryManager) Enrollments(dbx.DBTX) enrollments.Repository {
	return memEnrollments{m.store}
}

type enrollment struct {
	courseName string
	enrolledAt time.Time
}

type memStore struct {
	mu          sync.RWMutex
	lastUserID  int64
	users       map[int64]models.User
	courses     map[int64]models.Course
	enrollments map[int64]map[int64]enrollment
}

func sortByTitle(list []models.Course) {
	sort.Slice(list, func(i, j int) bool { return list[i].Title < list[j].Title })
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, common.ErrDuplicateEmail
		}
	}
	r.s.lastUserID++
	user.ID = r.s.lastUserID
	user.CreatedAt = time.Now()
	r.s.users[user.ID] = *user
	return user, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r memUsers) UpdatePassword(_ context.Context, email string, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, u := range r.s.users {
		if u.Email == email {
			u.PasswordHash = passwordHash
			r.s.users[id] = u
			return nil
		}
	}
	return common.ErrNotFound
}

type memCourses struct{ s *memStore }

func (r memCourses) ListAll(_ context.Context) ([]models.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Course, 0, len(r.s.courses))
	for _, c := range r.s.courses {
		out = append(out, c)
	}
	sortByTitle(out)
	return out, nil
}

func (r memCourses) Get(_ context.Context, id int64) (*models.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.courses[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &c, nil
}

func (r memCourses) ListForUser(ctx context.Context, userID int64) ([]models.Course, error) {
	all, _ := r.ListAll(ctx)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range all {
		_, ok := r.s.enrollments[userID][all[i].ID]
		all[i].Enrolled = &ok
	}
	return all, nil
}

func (r memCourses) GetForUser(ctx context.Context, id int64, userID int64) (*models.Course, error) {
	c, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.enrollments[userID][id]
	c.Enrolled = &ok
	return c, nil
}

type memEnrollments struct{ s *memStore }

func (r memEnrollments) Count(_ context.Context, userID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.enrollments[userID]), nil
}

func (r memEnrollments) SeedDefaults(_ context.Context, userID int64, titles []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if len(r.s.enrollments[userID]) > 0 {
		return 0, nil
	}
	var n int64
	for _, c := range r.s.courses {
		for _, t := range titles {
			if c.Title == t && r.insertLocked(userID, c) {
				n++
			}
		}
	}
	return n, nil
}

func (r memEnrollments) Enroll(_ context.Context, userID int64, courseID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[courseID]
	if !ok {
		return false, nil
	}
	return r.insertLocked(userID, c), nil
}

func (r memEnrollments) insertLocked(userID int64, c models.Course) bool {
	ledger, ok := r.s.enrollments[userID]
	if !ok {
		ledger = map[int64]enrollment{}
		r.s.enrollments[userID] = ledger
	}
	if _, exists := ledger[c.ID]; exists {
		return false
	}
	ledger[c.ID] = enrollment{courseName: c.Title, enrolledAt: time.Now()}
	return true
}

func (r memEnrollments) ListForUser(_ context.Context, userID int64) ([]models.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Course{}
	for id, e := range r.s.enrollments[userID] {
		c, ok := r.s.courses[id]
		if !ok {
			c = models.Course{ID: id, Title: e.courseName}
		}
		at := e.enrolledAt
		c.EnrolledAt = &at
		out = append(out, c)
	}
	sortByTitle(out)
	return out, nil
}
