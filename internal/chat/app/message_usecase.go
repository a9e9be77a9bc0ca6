package app

import (
	"context"

	"chat_backend_service/internal/chat/domain"
	chatrepo "chat_backend_service/internal/chat/repository"
	"chat_backend_service/pkg"
	errprocess "chat_backend_service/pkg/err"
)

// MessageUseCase definition message service. SaveMessage enforces chat
// membership; the system messages written by membership changes go through
// the repository directly and skip that check.
type MessageUseCase interface {
	SaveMessage(ctx context.Context, chatID, senderID, content string, msgType domain.MessageType, fileMetadata *domain.FileMetadata) (*domain.MessageResponse, error)
	UpdateLastMessage(ctx context.Context, chatID, messageID string) error
	GetMessages(ctx context.Context, chatID string) ([]domain.MessageResponse, error)
	GetMessageByID(ctx context.Context, messageID string) (*domain.MessageResponse, error)
	DeleteMessage(ctx context.Context, messageID string) error
}

type messageUseCase struct {
	messageRepo chatrepo.MessageRepository
	chatRepo    chatrepo.ChatRepository
}

// NewMessageUseCase create new message use case
func NewMessageUseCase(messageRepo chatrepo.MessageRepository, chatRepo chatrepo.ChatRepository) MessageUseCase {
	return &messageUseCase{
		messageRepo: messageRepo,
		chatRepo:    chatRepo,
	}
}

func (uc *messageUseCase) SaveMessage(ctx context.Context, chatID, senderID, content string, msgType domain.MessageType, fileMetadata *domain.FileMetadata) (*domain.MessageResponse, error) {
	chat, err := uc.chatRepo.FindOne(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !pkg.Contains(chat.MemberIDs(), senderID) {
		return nil, errprocess.NewConflict("user is not a member of this chat")
	}

	return uc.messageRepo.SaveMessage(ctx, chatID, senderID, content, msgType, fileMetadata)
}

func (uc *messageUseCase) UpdateLastMessage(ctx context.Context, chatID, messageID string) error {
	return uc.chatRepo.UpdateLastMessage(ctx, chatID, messageID)
}

func (uc *messageUseCase) GetMessages(ctx context.Context, chatID string) ([]domain.MessageResponse, error) {
	return uc.messageRepo.GetMessages(ctx, chatID)
}

func (uc *messageUseCase) GetMessageByID(ctx context.Context, messageID string) (*domain.MessageResponse, error) {
	return uc.messageRepo.GetMessageByID(ctx, messageID)
}

func (uc *messageUseCase) DeleteMessage(ctx context.Context, messageID string) error {
	return uc.messageRepo.Delete(ctx, messageID)
}
