package repomanager

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/studentcrm/internal/common"
	"github.com/dmitrijs2005/studentcrm/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []models.Course {
	return []models.Course{
		{Title: "Python Fundamentals"},
		{Title: "Java Programming"},
		{Title: "Database Systems"},
	}
}

func TestInMemory_UsersUniqueEmail(t *testing.T) {
	m := NewInMemoryRepositoryManager(nil)
	ctx := context.Background()

	u, err := m.Users(nil).Create(ctx, &models.User{Email: "a@x.com", FirstName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = m.Users(nil).Create(ctx, &models.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)

	got, err := m.Users(nil).GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)

	require.NoError(t, m.Users(nil).UpdatePassword(ctx, "a@x.com", "h2"))
	got, err = m.Users(nil).GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "h2", got.PasswordHash)

	assert.ErrorIs(t, m.Users(nil).UpdatePassword(ctx, "b@x.com", "h"), common.ErrNotFound)
}

func TestInMemory_CatalogSortedAndFlagged(t *testing.T) {
	m := NewInMemoryRepositoryManager(testCatalog())
	ctx := context.Background()

	all, err := m.Courses(nil).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Database Systems", all[0].Title)

	ok, err := m.Enrollments(nil).Enroll(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	flagged, err := m.Courses(nil).ListForUser(ctx, 1)
	require.NoError(t, err)
	for _, c := range flagged {
		require.NotNil(t, c.Enrolled)
		assert.Equal(t, c.ID == 2, *c.Enrolled, c.Title)
	}

	_, err = m.Courses(nil).GetForUser(ctx, 42, 1)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestInMemory_SeedOnlyEmptyLedger(t *testing.T) {
	m := NewInMemoryRepositoryManager(testCatalog())
	ctx := context.Background()
	repo := m.Enrollments(nil)

	n, err := repo.SeedDefaults(ctx, 1, []string{"Python Fundamentals", "Missing Title"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.SeedDefaults(ctx, 1, []string{"Java Programming"})
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := repo.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Python Fundamentals", list[0].Title)
	assert.NotNil(t, list[0].EnrolledAt)
}

func TestInMemory_ConcurrentEnrollInsertsOnce(t *testing.T) {
	m := NewInMemoryRepositoryManager(testCatalog())
	repo := m.Enrollments(nil)

	var fresh atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Enroll(context.Background(), 1, 3)
			if err == nil && ok {
				fresh.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), fresh.Load())
	n, _ := repo.Count(context.Background(), 1)
	assert.Equal(t, 1, n)
}
