package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"user_directory/internal/model"
)

// memoryUserRepository keeps accounts in process memory. It is used when the service runs
// with STORE_DRIVER=memory and by the handler and service tests. Every method holds the
// lock for its whole body, which gives each call the same atomicity a single SQL
// statement has.
type memoryUserRepository struct {
	mu     sync.RWMutex
	nextID int
	users  map[int]model.User
}

// NewMemoryUserRepository creates an empty in-memory UserRepository
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{nextID: 1, users: make(map[int]model.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrEmailExists
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			found := cloneUser(u)
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id int) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	found := cloneUser(u)
	return &found, nil
}

func (r *memoryUserRepository) List(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *memoryUserRepository) UpdateStatus(_ context.Context, id int, status model.Status) (*model.User, model.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, "", nil
	}
	previous := u.Status
	u.Status = status
	r.users[id] = u
	updated := cloneUser(u)
	return &updated, previous, nil
}

func (r *memoryUserRepository) UpdateLastLogin(_ context.Context, id int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil
	}
	u.LastLoginAt = &at
	r.users[id] = u
	return nil
}

func (r *memoryUserRepository) Delete(_ context.Context, id int) (*model.UserSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	delete(r.users, id)
	s := u.Summary()
	return &s, nil
}

func (r *memoryUserRepository) DeleteMany(_ context.Context, ids []int) ([]model.UserSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := []model.UserSummary{}
	for _, id := range ids {
		u, ok := r.users[id]
		if !ok {
			continue
		}
		delete(r.users, id)
		removed = append(removed, u.Summary())
	}
	return removed, nil
}

func (r *memoryUserRepository) Ping(context.Context) error {
	return nil
}

func cloneUser(u model.User) model.User {
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		u.LastLoginAt = &t
	}
	return u
}
