package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chat_backend_service/internal/user/domain"
	"chat_backend_service/pkg/encrypt"
	errprocess "chat_backend_service/pkg/err"
	"chat_backend_service/pkg/token"
)

func TestUserUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("new email", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockSessions := new(MockSessionRepository)

		mockUserRepo.On("FindByEmail", ctx, "alice@test.local").
			Return(nil, errprocess.NewNotFound("user not found"))
		mockUserRepo.On("Create", ctx, mock.Anything).Return(nil)

		uc := NewUserUseCase(mockUserRepo, time.Hour, mockSessions)
		user, err := uc.Register(ctx, "Alice", "alice@test.local", "Password1")

		assert.NoError(t, err)
		assert.Equal(t, "Alice", user.Name)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("email already taken", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)

		mockUserRepo.On("FindByEmail", ctx, "alice@test.local").
			Return(&domain.User{Email: "alice@test.local"}, nil)

		uc := NewUserUseCase(mockUserRepo, time.Hour, new(MockSessionRepository))
		_, err := uc.Register(ctx, "Alice", "alice@test.local", "Password1")

		assert.True(t, errprocess.IsConflict(err))
		mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUserUseCase_LoginLogout(t *testing.T) {
	ctx := context.Background()

	hashed, err := encrypt.HashPassword("Password1")
	assert.NoError(t, err)

	stored := &domain.User{
		ID:       primitive.NewObjectID(),
		Name:     "Alice",
		Email:    "alice.login@test.local",
		Password: hashed,
	}

	mockUserRepo := new(MockUserRepository)
	mockSessions := new(MockSessionRepository)

	mockUserRepo.On("FindByEmail", ctx, stored.Email).Return(stored, nil)
	mockSessions.On("Set", ctx, stored.ID.Hex(), mock.Anything, time.Hour).Return(nil)
	mockSessions.On("Del", ctx, stored.ID.Hex()).Return(nil)

	uc := NewUserUseCase(mockUserRepo, time.Hour, mockSessions)

	tokenStr, err := uc.Login(ctx, stored.Email, "Password1")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenStr)

	// the issued token carries the user identity
	claims, err := token.ParseJWT(tokenStr)
	assert.NoError(t, err)
	assert.Equal(t, stored.ID.Hex(), claims.UserID)
	assert.Equal(t, "Alice", claims.Name)

	assert.NoError(t, uc.Logout(ctx, tokenStr))
	mockSessions.AssertExpectations(t)
}

func TestUserUseCase_Login_BadPassword(t *testing.T) {
	ctx := context.Background()

	hashed, err := encrypt.HashPassword("Password1")
	assert.NoError(t, err)

	stored := &domain.User{ID: primitive.NewObjectID(), Email: "bob.login@test.local", Password: hashed}

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("FindByEmail", ctx, stored.Email).Return(stored, nil)

	uc := NewUserUseCase(mockUserRepo, time.Hour, new(MockSessionRepository))
	_, err = uc.Login(ctx, stored.Email, "WrongPassword9")

	assert.Error(t, err)
}

func TestUserUseCase_Logout_BadToken(t *testing.T) {
	uc := NewUserUseCase(new(MockUserRepository), time.Hour, new(MockSessionRepository))

	err := uc.Logout(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}
