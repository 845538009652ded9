package service

import (
	"context"
	"time"

	"user_directory/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) UpdateStatus(ctx context.Context, id int, status model.Status) (*model.User, model.Status, error) {
	args := m.Called(ctx, id, status)
	u, _ := args.Get(0).(*model.User)
	return u, args.Get(1).(model.Status), args.Error(2)
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id int, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int) (*model.UserSummary, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.UserSummary)
	return s, args.Error(1)
}

func (m *mockUserRepo) DeleteMany(ctx context.Context, ids []int) ([]model.UserSummary, error) {
	args := m.Called(ctx, ids)
	s, _ := args.Get(0).([]model.UserSummary)
	return s, args.Error(1)
}

func (m *mockUserRepo) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
