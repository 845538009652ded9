package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"user_directory/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMemory(t *testing.T, repo UserRepository, emails ...string) []int {
	t.Helper()
	ids := make([]int, 0, len(emails))
	for _, email := range emails {
		u := &model.User{Name: email, Email: email, Role: model.RoleUser, Status: model.StatusActive, RegisteredAt: time.Now()}
		require.NoError(t, repo.Create(context.Background(), u))
		ids = append(ids, u.ID)
	}
	return ids
}

func TestMemoryUserRepository_CreateEnforcesUniqueEmail(t *testing.T) {
	repo := NewMemoryUserRepository()
	seedMemory(t, repo, "a@x.com")

	err := repo.Create(context.Background(), &model.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrEmailExists)

	// equality is case-sensitive
	err = repo.Create(context.Background(), &model.User{Email: "A@x.com"})
	assert.NoError(t, err)
}

func TestMemoryUserRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryUserRepository()
	ids := seedMemory(t, repo, "a@x.com")

	u, err := repo.FindByID(context.Background(), ids[0])
	require.NoError(t, err)
	u.Status = model.StatusBlocked

	again, err := repo.FindByID(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, again.Status)
}

func TestMemoryUserRepository_UpdateStatusReportsPrevious(t *testing.T) {
	repo := NewMemoryUserRepository()
	ids := seedMemory(t, repo, "a@x.com")

	u, prev, err := repo.UpdateStatus(context.Background(), ids[0], model.StatusBlocked)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, prev)
	assert.Equal(t, model.StatusBlocked, u.Status)

	_, prev, err = repo.UpdateStatus(context.Background(), ids[0], model.StatusBlocked)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBlocked, prev)

	u, _, err = repo.UpdateStatus(context.Background(), 999, model.StatusBlocked)
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestMemoryUserRepository_DeleteMany(t *testing.T) {
	repo := NewMemoryUserRepository()
	ids := seedMemory(t, repo, "a@x.com", "b@x.com", "c@x.com")

	removed, err := repo.DeleteMany(context.Background(), []int{ids[0], 999, ids[2]})
	require.NoError(t, err)
	assert.Len(t, removed, 2)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "b@x.com", users[0].Email)
}

func TestMemoryUserRepository_ConcurrentStatusChanges(t *testing.T) {
	repo := NewMemoryUserRepository()
	ids := seedMemory(t, repo, "a@x.com")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := model.StatusActive
			if i%2 == 0 {
				status = model.StatusBlocked
			}
			_, _, err := repo.UpdateStatus(context.Background(), ids[0], status)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	u, err := repo.FindByID(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Contains(t, []model.Status{model.StatusActive, model.StatusBlocked}, u.Status)
}

func TestMemoryUserRepository_ListOrderedByID(t *testing.T) {
	repo := NewMemoryUserRepository()
	emails := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		emails = append(emails, fmt.Sprintf("u%d@x.com", i))
	}
	seedMemory(t, repo, emails...)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	for i := 1; i < len(users); i++ {
		assert.Less(t, users[i-1].ID, users[i].ID)
	}
}
