package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"chat_backend_service/internal/chat/domain"
	chatrepo "chat_backend_service/internal/chat/repository"
	userrepo "chat_backend_service/internal/user/repository"
	"chat_backend_service/pkg"
	errprocess "chat_backend_service/pkg/err"
	"chat_backend_service/pkg/logger"
)

// MembershipChange result of an add, remove or leave. Chat is nil when the
// group self-destructed; SystemMessage is nil when none was recorded.
// UserName is the resolved display name of the affected user.
type MembershipChange struct {
	Chat          *domain.ChatResponse
	SystemMessage *domain.MessageResponse
	UserName      string
}

// ChatUseCase definition chat service
type ChatUseCase interface {
	CreatePrivateChat(ctx context.Context, userID1, userID2 string) (*domain.ChatResponse, error)
	CreateGroup(ctx context.Context, name string, participants []string, createdBy string) (*domain.ChatResponse, error)
	AddUserToGroup(ctx context.Context, chatID, userID, addedBy string) (*MembershipChange, error)
	RemoveUserFromGroup(ctx context.Context, chatID, userID, removedBy string) (*MembershipChange, error)
	JoinChat(ctx context.Context, chatID, userID string) (*domain.ChatResponse, error)
	LeaveChat(ctx context.Context, chatID, userID string) (*MembershipChange, error)
	GetUserChats(ctx context.Context, userID, search string) ([]domain.ChatResponse, error)
	FindOne(ctx context.Context, chatID string) (*domain.ChatResponse, error)
	Delete(ctx context.Context, chatID string) error
}

type chatUseCase struct {
	chatRepo    chatrepo.ChatRepository
	messageRepo chatrepo.MessageRepository
	userRepo    userrepo.UserRepository
}

// NewChatUseCase create new chat use case
func NewChatUseCase(chatRepo chatrepo.ChatRepository, messageRepo chatrepo.MessageRepository, userRepo userrepo.UserRepository) ChatUseCase {
	return &chatUseCase{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

func (uc *chatUseCase) CreatePrivateChat(ctx context.Context, userID1, userID2 string) (*domain.ChatResponse, error) {
	if userID1 == userID2 {
		return nil, errprocess.NewInvalidArgument("cannot create private chat with yourself")
	}
	return uc.chatRepo.CreatePrivateChat(ctx, userID1, userID2)
}

// CreateGroup duplicate participants and a creator already listed are
// collapsed before the store sees them.
func (uc *chatUseCase) CreateGroup(ctx context.Context, name string, participants []string, createdBy string) (*domain.ChatResponse, error) {
	if name == "" {
		return nil, errprocess.NewInvalidArgument("group name required")
	}
	members := pkg.Dedup(append(append([]string{}, participants...), createdBy))
	return uc.chatRepo.CreateGroupChat(ctx, name, members, createdBy)
}

func (uc *chatUseCase) AddUserToGroup(ctx context.Context, chatID, userID, addedBy string) (*MembershipChange, error) {
	chat, err := uc.chatRepo.AddUserToGroup(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}

	userName := uc.resolveName(ctx, userID)
	content := fmt.Sprintf("%s was added by %s", userName, uc.resolveName(ctx, addedBy))
	return &MembershipChange{
		Chat:          chat,
		SystemMessage: uc.recordSystemMessage(ctx, chatID, addedBy, content),
		UserName:      userName,
	}, nil
}

func (uc *chatUseCase) RemoveUserFromGroup(ctx context.Context, chatID, userID, removedBy string) (*MembershipChange, error) {
	chat, err := uc.chatRepo.RemoveUserFromGroup(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		// group self-destructed, nowhere left to record the change
		return &MembershipChange{}, nil
	}

	userName := uc.resolveName(ctx, userID)
	sender := orDefault(removedBy, userID)

	var content string
	if removedBy == "" || removedBy == userID {
		content = fmt.Sprintf("%s left the group", userName)
	} else {
		content = fmt.Sprintf("%s was removed by %s", userName, uc.resolveName(ctx, removedBy))
	}
	return &MembershipChange{
		Chat:          chat,
		SystemMessage: uc.recordSystemMessage(ctx, chatID, sender, content),
		UserName:      userName,
	}, nil
}

func (uc *chatUseCase) JoinChat(ctx context.Context, chatID, userID string) (*domain.ChatResponse, error) {
	return uc.chatRepo.JoinChat(ctx, chatID, userID)
}

func (uc *chatUseCase) LeaveChat(ctx context.Context, chatID, userID string) (*MembershipChange, error) {
	chat, err := uc.chatRepo.LeaveChat(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return &MembershipChange{}, nil
	}

	userName := uc.resolveName(ctx, userID)
	content := fmt.Sprintf("%s left the group", userName)
	return &MembershipChange{
		Chat:          chat,
		SystemMessage: uc.recordSystemMessage(ctx, chatID, userID, content),
		UserName:      userName,
	}, nil
}

func (uc *chatUseCase) GetUserChats(ctx context.Context, userID, search string) ([]domain.ChatResponse, error) {
	return uc.chatRepo.GetUserChats(ctx, userID, search)
}

func (uc *chatUseCase) FindOne(ctx context.Context, chatID string) (*domain.ChatResponse, error) {
	return uc.chatRepo.FindOne(ctx, chatID)
}

func (uc *chatUseCase) Delete(ctx context.Context, chatID string) error {
	return uc.chatRepo.Delete(ctx, chatID)
}

func (uc *chatUseCase) resolveName(ctx context.Context, userID string) string {
	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "A user"
	}
	return user.Name
}

// recordSystemMessage best effort. The membership change already committed,
// a failed system message only loses the audit line.
func (uc *chatUseCase) recordSystemMessage(ctx context.Context, chatID, senderID, content string) *domain.MessageResponse {
	msg, err := uc.messageRepo.SaveMessage(ctx, chatID, senderID, content, domain.MessageTypeSystem, nil)
	if err != nil {
		logger.Log.Warn("system message not recorded",
			zap.String("chat_id", chatID), zap.Error(err))
		return nil
	}
	if err := uc.chatRepo.UpdateLastMessage(ctx, chatID, msg.ID); err != nil {
		logger.Log.Warn("last message pointer not updated",
			zap.String("chat_id", chatID), zap.Error(err))
	}
	return msg
}
