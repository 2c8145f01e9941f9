package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/studentcrm/internal/common"
	"github.com/dmitrijs2005/studentcrm/internal/dbx"
	"github.com/dmitrijs2005/studentcrm/internal/logging"
	"github.com/dmitrijs2005/studentcrm/internal/server/models"
	"github.com/dmitrijs2005/studentcrm/internal/server/repositories/enrollments"
	"github.com/dmitrijs2005/studentcrm/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(list []models.Course) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Title
	}
	return out
}

func findByTitle(t *testing.T, list []models.Course, title string) models.Course {
	t.Helper()
	for _, c := range list {
		if c.Title == title {
			return c
		}
	}
	t.Fatalf("course %q not found", title)
	return models.Course{}
}

func TestListCourses_SeedsOnce(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, "a@x.com")
	ctx := context.Background()

	list, err := e.courses.ListCourses(ctx, token)
	require.NoError(t, err)
	assert.ElementsMatch(t, bootstrapTitles, titles(list.Enrolled))

	list, err = e.courses.ListCourses(ctx, token)
	require.NoError(t, err)
	assert.Len(t, list.Enrolled, 4)
}

func TestListCourses_EnrolledSortedByTitle(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, "a@x.com")

	list, err := e.courses.ListCourses(context.Background(), token)
	require.NoError(t, err)
	assert.IsIncreasing(t, titles(list.Enrolled))
	assert.IsIncreasing(t, titles(list.Catalog))
}

func TestListCourses_CatalogCompleteAndFlagged(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, "a@x.com")

	list, err := e.courses.ListCourses(context.Background(), token)
	require.NoError(t, err)

	require.Len(t, list.Catalog, len(testCatalog()))
	enrolled := map[int64]bool{}
	for _, c := range list.Enrolled {
		enrolled[c.ID] = true
	}
	seen := map[int64]bool{}
	for _, c := range list.Catalog {
		assert.False(t, seen[c.ID], "duplicate catalog id %d", c.ID)
		seen[c.ID] = true
		require.NotNil(t, c.Enrolled)
		assert.Equal(t, enrolled[c.ID], *c.Enrolled, c.Title)
	}
}

func TestEnroll_FourFiveFive(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, "a@x.com")
	ctx := context.Background()

	list, err := e.courses.ListCourses(ctx, token)
	require.NoError(t, err)
	require.Len(t, list.Enrolled, 4)

	java := findByTitle(t, list.Catalog, "Java Programming")

	status, err := e.courses.Enroll(ctx, token, java.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Enrolled, status)

	list, err = e.courses.ListCourses(ctx, token)
	require.NoError(t, err)
	assert.Len(t, list.Enrolled, 5)

	status, err = e.courses.Enroll(ctx, token, java.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlreadyEnrolled, status)

	list, err = e.courses.ListCourses(ctx, token)
	require.NoError(t, err)
	assert.Len(t, list.Enrolled, 5)
}

func TestEnroll_ConcurrentSameCourse(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, "a@x.com")
	ctx := context.Background()

	list, err := e.courses.ListCourses(ctx, token)
	require.NoError(t, err)
	web := findByTitle(t, list.Catalog, "Web Development Basics")

	var mu sync.Mutex
	counts := map[models.EnrollStatus]int{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st, err := e.courses.Enroll(ctx, token, web.ID)
			if err != nil {
				return
			}
			mu.Lock()
			counts[st]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, counts[models.Enrolled])
	assert.Equal(t, 7, counts[models.AlreadyEnrolled])
}

func TestEnroll_InvalidCourse(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, "a@x.com")
	ctx := context.Background()

	_, err := e.courses.Enroll(ctx, token, 0)
	msg, ok := common.ValidationMessage(err)
	require.True(t, ok)
	assert.Equal(t, "Select a course to enroll.", msg)

	_, err = e.courses.Enroll(ctx, token, -3)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = e.courses.Enroll(ctx, token, 999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSessionGate(t *testing.T) {
	e := newEnv(t)
	e.login(t, "a@x.com")
	ctx := context.Background()

	for _, tok := range []string{"", "bogus"} {
		_, err := e.courses.ListCourses(ctx, tok)
		assert.ErrorIs(t, err, common.ErrUnauthenticated)

		_, err = e.courses.CourseDetail(ctx, tok, 1)
		assert.ErrorIs(t, err, common.ErrUnauthenticated)

		_, err = e.courses.Enroll(ctx, tok, 1)
		assert.ErrorIs(t, err, common.ErrUnauthenticated)

		// invalid input must not leak past the gate either
		_, err = e.courses.Enroll(ctx, tok, 0)
		assert.ErrorIs(t, err, common.ErrUnauthenticated)
	}

	n, err := e.rm.Enrollments(nil).Count(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCourseDetail(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, "a@x.com")
	ctx := context.Background()

	list, err := e.courses.ListCourses(ctx, token)
	require.NoError(t, err)
	java := findByTitle(t, list.Catalog, "Java Programming")
	python := findByTitle(t, list.Catalog, "Python Fundamentals")

	d, err := e.courses.CourseDetail(ctx, token, java.ID)
	require.NoError(t, err)
	assert.Equal(t, "Java Programming", d.Course.Title)
	require.NotNil(t, d.Course.Enrolled)
	assert.False(t, *d.Course.Enrolled)
	assert.Len(t, d.Enrolled, 4)

	d, err = e.courses.CourseDetail(ctx, token, python.ID)
	require.NoError(t, err)
	assert.True(t, *d.Course.Enrolled)

	_, err = e.courses.CourseDetail(ctx, token, 999)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = e.courses.CourseDetail(ctx, token, 0)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCourseDetail_SeedsFirstAccess(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, "a@x.com")

	d, err := e.courses.CourseDetail(context.Background(), token, 1)
	require.NoError(t, err)
	assert.Len(t, d.Enrolled, 4)
}

// failingSeedManager makes SeedDefaults fail while everything else works.
type failingSeedManager struct {
	*repomanager.InMemoryRepositoryManager
}

type failingSeedRepo struct {
	enrollments.Repository
}

func (failingSeedRepo) SeedDefaults(context.Context, int64, []string) (int64, error) {
	return 0, errors.New("seed boom")
}

func (m failingSeedManager) Enrollments(db dbx.DBTX) enrollments.Repository {
	return failingSeedRepo{m.InMemoryRepositoryManager.Enrollments(db)}
}

func TestListCourses_SeedFailureDoesNotFailRead(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, "a@x.com")

	svc := NewCourseService(e.db, failingSeedManager{e.rm}, e.sessions, bootstrapTitles, logging.Nop())

	list, err := svc.ListCourses(context.Background(), token)
	require.NoError(t, err)
	assert.Empty(t, list.Enrolled)
	assert.Len(t, list.Catalog, len(testCatalog()))
}
