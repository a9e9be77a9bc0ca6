package app

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"chat_backend_service/internal/chat/domain"
	userdomain "chat_backend_service/internal/user/domain"
)

// MockChatRepository Mock ChatRepository
type MockChatRepository struct {
	mock.Mock
}

// CreatePrivateChat mock create private chat
func (m *MockChatRepository) CreatePrivateChat(ctx context.Context, userID, participantID string) (*domain.ChatResponse, error) {
	args := m.Called(ctx, userID, participantID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ChatResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// CreateGroupChat mock create group chat
func (m *MockChatRepository) CreateGroupChat(ctx context.Context, name string, memberIDs []string, createdBy string) (*domain.ChatResponse, error) {
	args := m.Called(ctx, name, memberIDs, createdBy)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ChatResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// AddUserToGroup mock add member
func (m *MockChatRepository) AddUserToGroup(ctx context.Context, chatID, userID string) (*domain.ChatResponse, error) {
	args := m.Called(ctx, chatID, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ChatResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// RemoveUserFromGroup mock remove member
func (m *MockChatRepository) RemoveUserFromGroup(ctx context.Context, chatID, userID string) (*domain.ChatResponse, error) {
	args := m.Called(ctx, chatID, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ChatResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// JoinChat mock join
func (m *MockChatRepository) JoinChat(ctx context.Context, chatID, userID string) (*domain.ChatResponse, error) {
	args := m.Called(ctx, chatID, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ChatResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// LeaveChat mock leave
func (m *MockChatRepository) LeaveChat(ctx context.Context, chatID, userID string) (*domain.ChatResponse, error) {
	args := m.Called(ctx, chatID, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ChatResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// GetUserChats mock list chats
func (m *MockChatRepository) GetUserChats(ctx context.Context, userID, search string) ([]domain.ChatResponse, error) {
	args := m.Called(ctx, userID, search)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.ChatResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindOne mock find one chat
func (m *MockChatRepository) FindOne(ctx context.Context, chatID string) (*domain.ChatResponse, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ChatResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateLastMessage mock last message pointer update
func (m *MockChatRepository) UpdateLastMessage(ctx context.Context, chatID, messageID string) error {
	args := m.Called(ctx, chatID, messageID)
	return args.Error(0)
}

// Delete mock chat delete
func (m *MockChatRepository) Delete(ctx context.Context, chatID string) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// SaveMessage mock message append
func (m *MockMessageRepository) SaveMessage(ctx context.Context, chatID, senderID, content string, msgType domain.MessageType, fileMetadata *domain.FileMetadata) (*domain.MessageResponse, error) {
	args := m.Called(ctx, chatID, senderID, content, msgType, fileMetadata)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.MessageResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// GetMessages mock history read
func (m *MockMessageRepository) GetMessages(ctx context.Context, chatID string) ([]domain.MessageResponse, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.MessageResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// GetMessageByID mock single message read
func (m *MockMessageRepository) GetMessageByID(ctx context.Context, messageID string) (*domain.MessageResponse, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.MessageResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// Delete mock message delete
func (m *MockMessageRepository) Delete(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

// MockUserRepository Mock user repository
type MockUserRepository struct {
	mock.Mock
}

// Create mock user create
func (m *MockUserRepository) Create(ctx context.Context, user *userdomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// FindByID mock user lookup
func (m *MockUserRepository) FindByID(ctx context.Context, userID string) (*userdomain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*userdomain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByEmail mock user lookup by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) != nil {
		return args.Get(0).(*userdomain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindAll mock user list
func (m *MockUserRepository) FindAll(ctx context.Context) ([]userdomain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]userdomain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockChatUseCase Mock ChatUseCase
type MockChatUseCase struct {
	mock.Mock
}

// CreatePrivateChat mock
func (m *MockChatUseCase) CreatePrivateChat(ctx context.Context, userID1, userID2 string) (*domain.ChatResponse, error) {
	args := m.Called(ctx, userID1, userID2)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ChatResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// CreateGroup mock
func (m *MockChatUseCase) CreateGroup(ctx context.Context, name string, participants []string, createdBy string) (*domain.ChatResponse, error) {
	args := m.Called(ctx, name, participants, createdBy)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ChatResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// AddUserToGroup mock
func (m *MockChatUseCase) AddUserToGroup(ctx context.Context, chatID, userID, addedBy string) (*MembershipChange, error) {
	args := m.Called(ctx, chatID, userID, addedBy)
	if args.Get(0) != nil {
		return args.Get(0).(*MembershipChange), args.Error(1)
	}
	return nil, args.Error(1)
}

// RemoveUserFromGroup mock
func (m *MockChatUseCase) RemoveUserFromGroup(ctx context.Context, chatID, userID, removedBy string) (*MembershipChange, error) {
	args := m.Called(ctx, chatID, userID, removedBy)
	if args.Get(0) != nil {
		return args.Get(0).(*MembershipChange), args.Error(1)
	}
	return nil, args.Error(1)
}

// JoinChat mock
func (m *MockChatUseCase) JoinChat(ctx context.Context, chatID, userID string) (*domain.ChatResponse, error) {
	args := m.Called(ctx, chatID, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ChatResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// LeaveChat mock
func (m *MockChatUseCase) LeaveChat(ctx context.Context, chatID, userID string) (*MembershipChange, error) {
	args := m.Called(ctx, chatID, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*MembershipChange), args.Error(1)
	}
	return nil, args.Error(1)
}

// GetUserChats mock
func (m *MockChatUseCase) GetUserChats(ctx context.Context, userID, search string) ([]domain.ChatResponse, error) {
	args := m.Called(ctx, userID, search)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.ChatResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindOne mock
func (m *MockChatUseCase) FindOne(ctx context.Context, chatID string) (*domain.ChatResponse, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ChatResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// Delete mock
func (m *MockChatUseCase) Delete(ctx context.Context, chatID string) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

// MockMessageUseCase Mock MessageUseCase
type MockMessageUseCase struct {
	mock.Mock
}

// SaveMessage mock
func (m *MockMessageUseCase) SaveMessage(ctx context.Context, chatID, senderID, content string, msgType domain.MessageType, fileMetadata *domain.FileMetadata) (*domain.MessageResponse, error) {
	args := m.Called(ctx, chatID, senderID, content, msgType, fileMetadata)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.MessageResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateLastMessage mock
func (m *MockMessageUseCase) UpdateLastMessage(ctx context.Context, chatID, messageID string) error {
	args := m.Called(ctx, chatID, messageID)
	return args.Error(0)
}

// GetMessages mock
func (m *MockMessageUseCase) GetMessages(ctx context.Context, chatID string) ([]domain.MessageResponse, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.MessageResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// GetMessageByID mock
func (m *MockMessageUseCase) GetMessageByID(ctx context.Context, messageID string) (*domain.MessageResponse, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.MessageResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// DeleteMessage mock
func (m *MockMessageUseCase) DeleteMessage(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

// MockUploadUseCase Mock UploadUseCase
type MockUploadUseCase struct {
	mock.Mock
}

// Upload mock
func (m *MockUploadUseCase) Upload(ctx context.Context, originalName string, size int64, contentType string, r io.Reader) (*domain.FileMetadata, error) {
	args := m.Called(ctx, originalName, size, contentType, r)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.FileMetadata), args.Error(1)
	}
	return nil, args.Error(1)
}

// Download mock
func (m *MockUploadUseCase) Download(ctx context.Context, fileName string) (io.ReadCloser, error) {
	args := m.Called(ctx, fileName)
	if args.Get(0) != nil {
		return args.Get(0).(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

var errClosed = errors.New("connection closed")

// fakeConn records every event written to it, in order
type fakeConn struct {
	mu     sync.Mutex
	events []domain.WSEvent
	fail   bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errClosed
	}
	f.events = append(f.events, v.(domain.WSEvent))
	return nil
}

func (f *fakeConn) recorded() []domain.WSEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.WSEvent, len(f.events))
	copy(out, f.events)
	return out
}

func (f *fakeConn) eventNames() []domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]domain.Event, 0, len(f.events))
	for _, e := range f.events {
		names = append(names, e.Event)
	}
	return names
}
