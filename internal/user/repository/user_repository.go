package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chat_backend_service/internal/user/domain"
	errprocess "chat_backend_service/pkg/err"
)

// UserRepository definition user store
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, userID string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
}

type userRepository struct {
	usersColl *mongo.Collection
}

// NewMongoUserRepository create new mongo user repository
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{
		usersColl: db.Collection("users"),
	}
}

// Create insert a user
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := r.usersColl.InsertOne(ctx, user)
	return err
}

// FindByID find user by hex id
func (r *userRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errprocess.NewInvalidArgument("invalid user ID format")
	}

	var user domain.User
	err = r.usersColl.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, errprocess.NewNotFound("user %s not found", userID)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail find user by email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.usersColl.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, errprocess.NewNotFound("user with email %s not found", email)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll list every user, newest first
func (r *userRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cur, err := r.usersColl.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []domain.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
