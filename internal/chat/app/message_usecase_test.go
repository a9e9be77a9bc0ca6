package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chat_backend_service/internal/chat/domain"
	errprocess "chat_backend_service/pkg/err"
)

func TestMessageUseCase_SaveMessage_MemberOnly(t *testing.T) {
	ctx := context.Background()
	chatID := primitive.NewObjectID().Hex()
	memberID := primitive.NewObjectID().Hex()
	strangerID := primitive.NewObjectID().Hex()

	chat := &domain.ChatResponse{
		ID:      chatID,
		IsGroup: true,
		Members: []domain.ChatMember{{ID: memberID, Name: "Alice"}},
	}

	t.Run("member can send", func(t *testing.T) {
		mockChatRepo := new(MockChatRepository)
		mockMsgRepo := new(MockMessageRepository)

		saved := &domain.MessageResponse{ID: primitive.NewObjectID().Hex(), ChatID: chatID, Content: "hi"}
		mockChatRepo.On("FindOne", ctx, chatID).Return(chat, nil)
		mockMsgRepo.On("SaveMessage", ctx, chatID, memberID, "hi", domain.MessageTypeText, (*domain.FileMetadata)(nil)).
			Return(saved, nil)

		uc := NewMessageUseCase(mockMsgRepo, mockChatRepo)
		msg, err := uc.SaveMessage(ctx, chatID, memberID, "hi", domain.MessageTypeText, nil)

		assert.NoError(t, err)
		assert.Equal(t, saved, msg)
		mockMsgRepo.AssertExpectations(t)
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		mockChatRepo := new(MockChatRepository)
		mockMsgRepo := new(MockMessageRepository)

		mockChatRepo.On("FindOne", ctx, chatID).Return(chat, nil)

		uc := NewMessageUseCase(mockMsgRepo, mockChatRepo)
		_, err := uc.SaveMessage(ctx, chatID, strangerID, "hi", domain.MessageTypeText, nil)

		assert.True(t, errprocess.IsConflict(err))
		mockMsgRepo.AssertNotCalled(t, "SaveMessage")
	})

	t.Run("missing chat", func(t *testing.T) {
		mockChatRepo := new(MockChatRepository)
		mockMsgRepo := new(MockMessageRepository)

		mockChatRepo.On("FindOne", ctx, chatID).Return(nil, errprocess.NewNotFound("chat not found"))

		uc := NewMessageUseCase(mockMsgRepo, mockChatRepo)
		_, err := uc.SaveMessage(ctx, chatID, memberID, "hi", domain.MessageTypeText, nil)

		assert.True(t, errprocess.IsNotFound(err))
	})
}

func TestMessageUseCase_Passthrough(t *testing.T) {
	ctx := context.Background()
	chatID := primitive.NewObjectID().Hex()
	messageID := primitive.NewObjectID().Hex()

	mockChatRepo := new(MockChatRepository)
	mockMsgRepo := new(MockMessageRepository)

	mockMsgRepo.On("GetMessages", ctx, chatID).Return([]domain.MessageResponse{}, nil)
	mockMsgRepo.On("Delete", ctx, messageID).Return(nil)
	mockChatRepo.On("UpdateLastMessage", ctx, chatID, messageID).Return(nil)

	uc := NewMessageUseCase(mockMsgRepo, mockChatRepo)

	_, err := uc.GetMessages(ctx, chatID)
	assert.NoError(t, err)
	assert.NoError(t, uc.DeleteMessage(ctx, messageID))
	assert.NoError(t, uc.UpdateLastMessage(ctx, chatID, messageID))

	mockMsgRepo.AssertExpectations(t)
	mockChatRepo.AssertExpectations(t)
}
