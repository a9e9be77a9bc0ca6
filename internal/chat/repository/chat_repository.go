package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chat_backend_service/internal/chat/domain"
	userdomain "chat_backend_service/internal/user/domain"
	errprocess "chat_backend_service/pkg/err"
)

// ChatRepository definition conversation store. Reads come back populated
// with member display fields and the last-message preview.
type ChatRepository interface {
	CreatePrivateChat(ctx context.Context, userID, participantID string) (*domain.ChatResponse, error)
	CreateGroupChat(ctx context.Context, name string, memberIDs []string, createdBy string) (*domain.ChatResponse, error)
	AddUserToGroup(ctx context.Context, chatID, userID string) (*domain.ChatResponse, error)
	RemoveUserFromGroup(ctx context.Context, chatID, userID string) (*domain.ChatResponse, error)
	JoinChat(ctx context.Context, chatID, userID string) (*domain.ChatResponse, error)
	LeaveChat(ctx context.Context, chatID, userID string) (*domain.ChatResponse, error)
	GetUserChats(ctx context.Context, userID, search string) ([]domain.ChatResponse, error)
	FindOne(ctx context.Context, chatID string) (*domain.ChatResponse, error)
	UpdateLastMessage(ctx context.Context, chatID, messageID string) error
	Delete(ctx context.Context, chatID string) error
}

type chatRepository struct {
	chatsColl    *mongo.Collection
	messagesColl *mongo.Collection
	usersColl    *mongo.Collection
}

// NewMongoChatRepository create new mongo chat repository
func NewMongoChatRepository(db *mongo.Database) ChatRepository {
	return &chatRepository{
		chatsColl:    db.Collection("chats"),
		messagesColl: db.Collection("messages"),
		usersColl:    db.Collection("users"),
	}
}

// CreatePrivateChat find-or-create the chat for an unordered user pair.
// Calling it twice for the same pair returns the same chat.
func (r *chatRepository) CreatePrivateChat(ctx context.Context, userID, participantID string) (*domain.ChatResponse, error) {
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errprocess.NewInvalidArgument("invalid user ID format")
	}
	participantOID, err := primitive.ObjectIDFromHex(participantID)
	if err != nil {
		return nil, errprocess.NewInvalidArgument("invalid user ID format")
	}

	filter := bson.M{
		"is_group": false,
		"members":  bson.M{"$all": bson.A{userOID, participantOID}, "$size": 2},
	}
	var existing domain.Chat
	err = r.chatsColl.FindOne(ctx, filter).Decode(&existing)
	if err == nil {
		return r.populateChat(ctx, &existing)
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	var participant userdomain.User
	err = r.usersColl.FindOne(ctx, bson.M{"_id": participantOID}).Decode(&participant)
	if err == mongo.ErrNoDocuments {
		return nil, errprocess.NewNotFound("participant not found")
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	chat := domain.Chat{
		ID:        primitive.NewObjectID(),
		Name:      participant.Name,
		IsGroup:   false,
		Members:   []primitive.ObjectID{userOID, participantOID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.chatsColl.InsertOne(ctx, chat); err != nil {
		return nil, err
	}

	return r.populateChat(ctx, &chat)
}

// CreateGroupChat create a group with the given member set. No duplicate
// suppression, the creator is expected inside memberIDs.
func (r *chatRepository) CreateGroupChat(ctx context.Context, name string, memberIDs []string, createdBy string) (*domain.ChatResponse, error) {
	members := make([]primitive.ObjectID, 0, len(memberIDs))
	for _, id := range memberIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, errprocess.NewInvalidArgument("invalid user ID format")
		}
		members = append(members, oid)
	}
	if len(members) == 0 {
		return nil, errprocess.NewInvalidArgument("group must have at least one member")
	}

	now := time.Now()
	chat := domain.Chat{
		ID:        primitive.NewObjectID(),
		Name:      name,
		IsGroup:   true,
		Members:   members,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.chatsColl.InsertOne(ctx, chat); err != nil {
		return nil, err
	}

	return r.populateChat(ctx, &chat)
}

// AddUserToGroup append userID to the member set as one conditional update,
// so two concurrent adds cannot lose each other.
func (r *chatRepository) AddUserToGroup(ctx context.Context, chatID, userID string) (*domain.ChatResponse, error) {
	chatOID, userOID, err := r.parseIDs(chatID, userID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": chatOID, "is_group": true, "members": bson.M{"$ne": userOID}}
	update := bson.M{
		"$addToSet": bson.M{"members": userOID},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Chat
	err = r.chatsColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		chat, ferr := r.findChat(ctx, chatOID)
		if ferr != nil || !chat.IsGroup {
			return nil, errprocess.NewNotFound("chat not found or not a group")
		}
		return nil, errprocess.NewConflict("user already in chat")
	}
	if err != nil {
		return nil, err
	}

	return r.populateChat(ctx, &updated)
}

// RemoveUserFromGroup pull userID from the member set. An emptied group is
// deleted in the same operation, reported as a nil chat.
func (r *chatRepository) RemoveUserFromGroup(ctx context.Context, chatID, userID string) (*domain.ChatResponse, error) {
	chatOID, userOID, err := r.parseIDs(chatID, userID)
	if err != nil {
		return nil, err
	}

	updated, err := r.pullMember(ctx, chatOID, userOID)
	if err == mongo.ErrNoDocuments {
		chat, ferr := r.findChat(ctx, chatOID)
		if ferr != nil || !chat.IsGroup {
			return nil, errprocess.NewNotFound("chat not found or not a group")
		}
		return nil, errprocess.NewConflict("user not in chat")
	}
	if err != nil {
		return nil, err
	}

	if len(updated.Members) == 0 {
		return nil, r.deleteIfEmpty(ctx, chatOID)
	}

	return r.populateChat(ctx, updated)
}

// JoinChat group-only variant of AddUserToGroup, private chats are rejected
// as InvalidArgument.
func (r *chatRepository) JoinChat(ctx context.Context, chatID, userID string) (*domain.ChatResponse, error) {
	chatOID, userOID, err := r.parseIDs(chatID, userID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": chatOID, "is_group": true, "members": bson.M{"$ne": userOID}}
	update := bson.M{
		"$addToSet": bson.M{"members": userOID},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Chat
	err = r.chatsColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		chat, ferr := r.findChat(ctx, chatOID)
		if ferr != nil {
			return nil, errprocess.NewNotFound("chat not found")
		}
		if !chat.IsGroup {
			return nil, errprocess.NewInvalidArgument("cannot join private chat")
		}
		return nil, errprocess.NewConflict("user already in chat")
	}
	if err != nil {
		return nil, err
	}

	return r.populateChat(ctx, &updated)
}

// LeaveChat group-only variant of RemoveUserFromGroup with the same
// self-destruct rule.
func (r *chatRepository) LeaveChat(ctx context.Context, chatID, userID string) (*domain.ChatResponse, error) {
	chatOID, userOID, err := r.parseIDs(chatID, userID)
	if err != nil {
		return nil, err
	}

	updated, err := r.pullMember(ctx, chatOID, userOID)
	if err == mongo.ErrNoDocuments {
		chat, ferr := r.findChat(ctx, chatOID)
		if ferr != nil {
			return nil, errprocess.NewNotFound("chat not found")
		}
		if !chat.IsGroup {
			return nil, errprocess.NewInvalidArgument("cannot leave private chat")
		}
		return nil, errprocess.NewConflict("user not in chat")
	}
	if err != nil {
		return nil, err
	}

	if len(updated.Members) == 0 {
		return nil, r.deleteIfEmpty(ctx, chatOID)
	}

	return r.populateChat(ctx, updated)
}

// GetUserChats list chats containing userID, optionally filtered by a
// case-insensitive name substring, most recently updated first.
func (r *chatRepository) GetUserChats(ctx context.Context, userID, search string) ([]domain.ChatResponse, error) {
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errprocess.NewInvalidArgument("invalid user ID format")
	}

	filter := bson.M{"members": userOID}
	if search != "" {
		filter["name"] = bson.M{"$regex": search, "$options": "i"}
	}

	opts := options.Find().SetSort(bson.M{"updated_at": -1})
	cur, err := r.chatsColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var chats []domain.Chat
	if err := cur.All(ctx, &chats); err != nil {
		return nil, err
	}

	out := make([]domain.ChatResponse, 0, len(chats))
	for i := range chats {
		resp, err := r.populateChat(ctx, &chats[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// FindOne fetch a single populated chat
func (r *chatRepository) FindOne(ctx context.Context, chatID string) (*domain.ChatResponse, error) {
	chatOID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return nil, errprocess.NewInvalidArgument("invalid chat ID format")
	}

	chat, err := r.findChat(ctx, chatOID)
	if err != nil {
		return nil, errprocess.NewNotFound("chat not found")
	}
	return r.populateChat(ctx, chat)
}

// UpdateLastMessage unconditional pointer set. Racing a chat delete is a
// silent no-op.
func (r *chatRepository) UpdateLastMessage(ctx context.Context, chatID, messageID string) error {
	chatOID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return errprocess.NewInvalidArgument("invalid chat ID format")
	}
	msgOID, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return errprocess.NewInvalidArgument("invalid message ID format")
	}

	_, err = r.chatsColl.UpdateOne(ctx, bson.M{"_id": chatOID}, bson.M{
		"$set": bson.M{"last_message": msgOID, "updated_at": time.Now()},
	})
	return err
}

// Delete explicit chat delete. Messages are not cascaded.
func (r *chatRepository) Delete(ctx context.Context, chatID string) error {
	chatOID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return errprocess.NewInvalidArgument("invalid chat ID format")
	}

	res, err := r.chatsColl.DeleteOne(ctx, bson.M{"_id": chatOID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errprocess.NewNotFound("chat not found")
	}
	return nil
}

func (r *chatRepository) parseIDs(chatID, userID string) (primitive.ObjectID, primitive.ObjectID, error) {
	chatOID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, errprocess.NewInvalidArgument("invalid chat ID format")
	}
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, errprocess.NewInvalidArgument("invalid user ID format")
	}
	return chatOID, userOID, nil
}

func (r *chatRepository) findChat(ctx context.Context, chatOID primitive.ObjectID) (*domain.Chat, error) {
	var chat domain.Chat
	if err := r.chatsColl.FindOne(ctx, bson.M{"_id": chatOID}).Decode(&chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) pullMember(ctx context.Context, chatOID, userOID primitive.ObjectID) (*domain.Chat, error) {
	filter := bson.M{"_id": chatOID, "is_group": true, "members": userOID}
	update := bson.M{
		"$pull": bson.M{"members": userOID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Chat
	if err := r.chatsColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// deleteIfEmpty self-destruct an emptied group. The size guard keeps a
// concurrent re-join from being wiped out.
func (r *chatRepository) deleteIfEmpty(ctx context.Context, chatOID primitive.ObjectID) error {
	_, err := r.chatsColl.DeleteOne(ctx, bson.M{"_id": chatOID, "members": bson.M{"$size": 0}})
	return err
}

// populateChat resolve member display fields and the last-message preview.
// A dangling last-message pointer reads back as no preview.
func (r *chatRepository) populateChat(ctx context.Context, chat *domain.Chat) (*domain.ChatResponse, error) {
	resp := &domain.ChatResponse{
		ID:        chat.ID.Hex(),
		Name:      chat.Name,
		IsGroup:   chat.IsGroup,
		Members:   []domain.ChatMember{},
		UpdatedAt: chat.UpdatedAt,
	}

	if len(chat.Members) > 0 {
		cur, err := r.usersColl.Find(ctx, bson.M{"_id": bson.M{"$in": chat.Members}})
		if err != nil {
			return nil, err
		}
		var users []userdomain.User
		if err := cur.All(ctx, &users); err != nil {
			return nil, err
		}

		byID := make(map[primitive.ObjectID]userdomain.User, len(users))
		for _, u := range users {
			byID[u.ID] = u
		}
		for _, mid := range chat.Members {
			u, ok := byID[mid]
			if !ok {
				continue
			}
			resp.Members = append(resp.Members, domain.ChatMember{
				ID:     u.ID.Hex(),
				Name:   u.Name,
				Email:  u.Email,
				Avatar: u.Avatar,
			})
		}
	}

	if chat.LastMessage != nil {
		var msg domain.Message
		err := r.messagesColl.FindOne(ctx, bson.M{"_id": *chat.LastMessage}).Decode(&msg)
		if err == nil {
			preview := &domain.LastMessagePreview{
				ID:        msg.ID.Hex(),
				Content:   msg.Content,
				SenderID:  msg.SenderID.Hex(),
				Timestamp: msg.Timestamp,
			}
			var sender userdomain.User
			if err := r.usersColl.FindOne(ctx, bson.M{"_id": msg.SenderID}).Decode(&sender); err == nil {
				preview.SenderName = sender.Name
			}
			resp.LastMessage = preview
		} else if err != mongo.ErrNoDocuments {
			return nil, err
		}
	}

	return resp, nil
}
