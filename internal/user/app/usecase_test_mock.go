package app

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"chat_backend_service/internal/user/domain"
)

// MockUserRepository Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

// Create mock user insert
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// FindByID mock lookup by id
func (m *MockUserRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByEmail mock lookup by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindAll mock list users
func (m *MockUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSessionRepository Mock redis session repository
type MockSessionRepository struct {
	mock.Mock
}

// Set mock session write
func (m *MockSessionRepository) Set(ctx context.Context, key string, value domain.UserSession, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Get mock session read
func (m *MockSessionRepository) Get(ctx context.Context, key string) (domain.UserSession, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.UserSession), args.Error(1)
}

// Del mock session delete
func (m *MockSessionRepository) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// ExtendTTL mock ttl refresh
func (m *MockSessionRepository) ExtendTTL(ctx context.Context, key string, ttl time.Duration) error {
	args := m.Called(ctx, key, ttl)
	return args.Error(0)
}

// GetTTL mock ttl read
func (m *MockSessionRepository) GetTTL(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}
