package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"chat_backend_service/internal/user/domain"
	"chat_backend_service/internal/user/repository"
	"chat_backend_service/pkg/config"
	"chat_backend_service/pkg/database"
	"chat_backend_service/pkg/encrypt"
	errprocess "chat_backend_service/pkg/err"
	"chat_backend_service/pkg/logger"
	"chat_backend_service/pkg/token"
)

// UserUseCase application service for the user collaborator
type UserUseCase interface {
	Register(ctx context.Context, name, email, password string) (*domain.UserResponse, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, tokenStr string) error
	FindByEmail(ctx context.Context, email string) (*domain.UserResponse, error)
	FindByID(ctx context.Context, userID string) (*domain.UserResponse, error)
	FindAll(ctx context.Context) ([]domain.UserResponse, error)
}

type userUseCase struct {
	userRepo   repository.UserRepository
	sessionTTL time.Duration
	redisRepo  database.RedisRepository[domain.UserSession]
}

// NewUserUseCase create a UserUseCase
func NewUserUseCase(userRepo repository.UserRepository,
	sessionTTL time.Duration,
	redisRepo database.RedisRepository[domain.UserSession],
) UserUseCase {
	return &userUseCase{
		userRepo:   userRepo,
		sessionTTL: sessionTTL,
		redisRepo:  redisRepo,
	}
}

// Register create a user with a hashed password
func (u *userUseCase) Register(ctx context.Context, name, email, password string) (*domain.UserResponse, error) {
	if _, err := u.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, errprocess.NewConflict("email already exists")
	}

	pw, err := encrypt.HashPassword(password)
	if err != nil {
		return nil, errprocess.NewInvalidArgument("%v", err)
	}

	user := domain.User{
		Name:      name,
		Email:     email,
		Password:  pw,
		CreatedAt: time.Now(),
	}

	if err := u.userRepo.Create(ctx, &user); err != nil {
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

// Login verify credentials, issue a JWT and open a redis session
func (u *userUseCase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Log.Error("login: email not found", zap.String("email", email))
		return "", errprocess.NewNotFound("user not found")
	}

	if err = user.IsPasswordMatch(password); err != nil {
		logger.Log.Error("login: password mismatch", zap.String("email", email))
		return "", err
	}

	t, err := token.GenerateJWT(user.ID.Hex(), user.Name, config.EnvConfig.ChatService)
	if err != nil {
		return "", err
	}

	now := time.Now()
	session := domain.UserSession{
		Token:        t,
		UserID:       user.ID.Hex(),
		CreatedAt:    now,
		LastActivity: now,
		ExpiredAt:    now.Add(u.sessionTTL),
	}

	if err := u.redisRepo.Set(ctx, user.ID.Hex(), session, u.sessionTTL); err != nil {
		return "", err
	}

	return t, nil
}

// Logout drop the redis session
func (u *userUseCase) Logout(ctx context.Context, tokenStr string) error {
	claims, err := token.ParseJWT(tokenStr)
	if err != nil {
		logger.Log.Error("logout err", zap.String("err", err.Error()))
		return err
	}

	return u.redisRepo.Del(ctx, claims.UserID)
}

// FindByEmail lookup a user by email
func (u *userUseCase) FindByEmail(ctx context.Context, email string) (*domain.UserResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

// FindByID lookup a user by id
func (u *userUseCase) FindByID(ctx context.Context, userID string) (*domain.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

// FindAll list users
func (u *userUseCase) FindAll(ctx context.Context) ([]domain.UserResponse, error) {
	users, err := u.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	return out, nil
}
