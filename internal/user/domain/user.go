package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"chat_backend_service/pkg/encrypt"
)

// User document in the users collection
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Avatar    string             `bson:"avatar"`
	IsAdmin   bool               `bson:"is_admin"`
	CreatedAt time.Time          `bson:"created_at"`
}

// UserResponse caller-facing projection, password never leaves the store
type UserResponse struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// UserSession login session kept in redis with a TTL
type UserSession struct {
	Token        string    `json:"Token"`
	UserID       string    `json:"UserID"`
	CreatedAt    time.Time `json:"CreatedAt"`
	LastActivity time.Time `json:"LastActivity"`
	ExpiredAt    time.Time `json:"ExpiredAt"`
}

// IsPasswordMatch verify a login attempt
func (u *User) IsPasswordMatch(inputPwd string) error {
	return encrypt.CheckPassword(u.Password, inputPwd)
}

// IsExpired check session expiry
func (s *UserSession) IsExpired() bool {
	return time.Now().After(s.ExpiredAt)
}

// ToResponse project the stored user
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:     u.ID.Hex(),
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
	}
}
