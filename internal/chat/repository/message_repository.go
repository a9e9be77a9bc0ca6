package repository

import (
	"context"
	"net/url"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chat_backend_service/internal/chat/domain"
	userdomain "chat_backend_service/internal/user/domain"
	errprocess "chat_backend_service/pkg/err"
)

// markdownPattern markers that flag a text message as formatted
var markdownPattern = regexp.MustCompile("(\\*\\*|__|\\*|_|~~|`)")

// MessageRepository definition append-only message log
type MessageRepository interface {
	SaveMessage(ctx context.Context, chatID, senderID, content string, msgType domain.MessageType, fileMetadata *domain.FileMetadata) (*domain.MessageResponse, error)
	GetMessages(ctx context.Context, chatID string) ([]domain.MessageResponse, error)
	GetMessageByID(ctx context.Context, messageID string) (*domain.MessageResponse, error)
	Delete(ctx context.Context, messageID string) error
}

type messageRepository struct {
	messagesColl *mongo.Collection
	chatsColl    *mongo.Collection
	usersColl    *mongo.Collection
}

// NewMongoMessageRepository create new mongo message repository
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{
		messagesColl: db.Collection("messages"),
		chatsColl:    db.Collection("chats"),
		usersColl:    db.Collection("users"),
	}
}

// SaveMessage append one message and read it back enriched with sender and
// chat display fields.
func (r *messageRepository) SaveMessage(ctx context.Context, chatID, senderID, content string, msgType domain.MessageType, fileMetadata *domain.FileMetadata) (*domain.MessageResponse, error) {
	chatOID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return nil, errprocess.NewInvalidArgument("invalid chat ID format")
	}
	senderOID, err := primitive.ObjectIDFromHex(senderID)
	if err != nil {
		return nil, errprocess.NewInvalidArgument("invalid sender ID format")
	}
	if !msgType.Valid() {
		return nil, errprocess.NewInvalidArgument("invalid message type: %s", msgType)
	}

	if msgType.HasAttachment() {
		if fileMetadata == nil {
			return nil, errprocess.NewInvalidArgument("file metadata required for %s message", msgType)
		}
	} else {
		fileMetadata = nil
	}

	if msgType == domain.MessageTypeImage && fileMetadata.FileName != "" {
		fileMetadata.URL = "/uploads/" + url.PathEscape(fileMetadata.FileName)
	}

	msg := domain.Message{
		ID:           primitive.NewObjectID(),
		ChatID:       chatOID,
		SenderID:     senderOID,
		Content:      content,
		Type:         msgType,
		FileMetadata: fileMetadata,
		IsFormatted:  msgType == domain.MessageTypeText && markdownPattern.MatchString(content),
		Timestamp:    time.Now(),
	}
	if _, err := r.messagesColl.InsertOne(ctx, msg); err != nil {
		return nil, err
	}

	return r.populateMessage(ctx, &msg)
}

// GetMessages full history of a chat in creation order
func (r *messageRepository) GetMessages(ctx context.Context, chatID string) ([]domain.MessageResponse, error) {
	chatOID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return nil, errprocess.NewInvalidArgument("invalid chat ID format")
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.messagesColl.Find(ctx, bson.M{"chat_id": chatOID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []domain.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}

	senders, err := r.loadSenders(ctx, msgs)
	if err != nil {
		return nil, err
	}
	chatRef := r.loadChatRef(ctx, chatOID)

	out := make([]domain.MessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, buildMessageResponse(&msgs[i], senders, chatRef))
	}
	return out, nil
}

// GetMessageByID fetch one enriched message
func (r *messageRepository) GetMessageByID(ctx context.Context, messageID string) (*domain.MessageResponse, error) {
	msgOID, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return nil, errprocess.NewInvalidArgument("invalid message ID format")
	}

	var msg domain.Message
	err = r.messagesColl.FindOne(ctx, bson.M{"_id": msgOID}).Decode(&msg)
	if err == mongo.ErrNoDocuments {
		return nil, errprocess.NewNotFound("message not found")
	}
	if err != nil {
		return nil, err
	}

	return r.populateMessage(ctx, &msg)
}

// Delete hard delete without touching the owning chat's last-message pointer
func (r *messageRepository) Delete(ctx context.Context, messageID string) error {
	msgOID, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return errprocess.NewInvalidArgument("invalid message ID format")
	}

	res, err := r.messagesColl.DeleteOne(ctx, bson.M{"_id": msgOID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errprocess.NewNotFound("message not found")
	}
	return nil
}

func (r *messageRepository) populateMessage(ctx context.Context, msg *domain.Message) (*domain.MessageResponse, error) {
	senders, err := r.loadSenders(ctx, []domain.Message{*msg})
	if err != nil {
		return nil, err
	}
	resp := buildMessageResponse(msg, senders, r.loadChatRef(ctx, msg.ChatID))
	return &resp, nil
}

func (r *messageRepository) loadSenders(ctx context.Context, msgs []domain.Message) (map[primitive.ObjectID]userdomain.User, error) {
	ids := make([]primitive.ObjectID, 0, len(msgs))
	seen := make(map[primitive.ObjectID]bool, len(msgs))
	for i := range msgs {
		if !seen[msgs[i].SenderID] {
			seen[msgs[i].SenderID] = true
			ids = append(ids, msgs[i].SenderID)
		}
	}
	senders := make(map[primitive.ObjectID]userdomain.User, len(ids))
	if len(ids) == 0 {
		return senders, nil
	}

	cur, err := r.usersColl.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var users []userdomain.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		senders[u.ID] = u
	}
	return senders, nil
}

// loadChatRef nil when the chat has been deleted out from under its messages
func (r *messageRepository) loadChatRef(ctx context.Context, chatOID primitive.ObjectID) *domain.ChatRef {
	var chat domain.Chat
	if err := r.chatsColl.FindOne(ctx, bson.M{"_id": chatOID}).Decode(&chat); err != nil {
		return nil
	}
	return &domain.ChatRef{
		ID:      chat.ID.Hex(),
		Name:    chat.Name,
		IsGroup: chat.IsGroup,
	}
}

func buildMessageResponse(msg *domain.Message, senders map[primitive.ObjectID]userdomain.User, chatRef *domain.ChatRef) domain.MessageResponse {
	sender := domain.MessageSender{ID: msg.SenderID.Hex()}
	if u, ok := senders[msg.SenderID]; ok {
		sender.Name = u.Name
		sender.Email = u.Email
		sender.Avatar = u.Avatar
	}
	return domain.MessageResponse{
		ID:           msg.ID.Hex(),
		ChatID:       msg.ChatID.Hex(),
		Chat:         chatRef,
		Sender:       sender,
		Content:      msg.Content,
		Type:         msg.Type,
		FileMetadata: msg.FileMetadata,
		IsFormatted:  msg.IsFormatted,
		Timestamp:    msg.Timestamp,
	}
}
