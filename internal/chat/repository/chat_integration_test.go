package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chat_backend_service/internal/chat/domain"
	userdomain "chat_backend_service/internal/user/domain"
	"chat_backend_service/pkg/database"
	errprocess "chat_backend_service/pkg/err"
	"chat_backend_service/pkg/logger"
	testtool "chat_backend_service/pkg/test_tool"
)

var (
	testDB      *database.MongoDB
	chatRepo    ChatRepository
	messageRepo MessageRepository
)

func TestMain(m *testing.M) {
	ctx := context.Background()
	logger.SetNewNop()

	mongoContainer, mongoHost, mongoPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "mongo:latest",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	})
	if err != nil {
		log.Fatalf("Failed to start MongoDB container: %v", err)
	}

	testDB, err = database.NewMongoDB(ctx, database.Connection{
		ConnectStr:    fmt.Sprintf("mongodb://%s:%s", mongoHost, mongoPort),
		RetryCount:    5,
		RetryInterval: 5,
	}, "test_chat_db")
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	chatRepo = NewMongoChatRepository(testDB.Database)
	messageRepo = NewMongoMessageRepository(testDB.Database)

	code := m.Run()

	testDB.Close(ctx)
	mongoContainer.Terminate(ctx)
	os.Exit(code)
}

func createTestUser(t *testing.T, name, email string) string {
	t.Helper()
	user := userdomain.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  "irrelevant",
		CreatedAt: time.Now(),
	}
	_, err := testDB.Database.Collection("users").InsertOne(context.Background(), user)
	assert.NoError(t, err)
	return user.ID.Hex()
}

func TestIntegration_PrivateChatIdempotent(t *testing.T) {
	ctx := context.Background()
	alice := createTestUser(t, "Alice", "alice.private@test.local")
	bob := createTestUser(t, "Bob", "bob.private@test.local")

	first, err := chatRepo.CreatePrivateChat(ctx, alice, bob)
	assert.NoError(t, err)
	assert.False(t, first.IsGroup)
	assert.Equal(t, "Bob", first.Name)
	assert.Len(t, first.Members, 2)

	// same pair in reverse order resolves to the same chat
	second, err := chatRepo.CreatePrivateChat(ctx, bob, alice)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestIntegration_PrivateChat_Errors(t *testing.T) {
	ctx := context.Background()
	alice := createTestUser(t, "Alice2", "alice2.private@test.local")

	_, err := chatRepo.CreatePrivateChat(ctx, alice, primitive.NewObjectID().Hex())
	assert.True(t, errprocess.IsNotFound(err))

	_, err = chatRepo.CreatePrivateChat(ctx, alice, "garbage")
	assert.True(t, errprocess.IsInvalidArgument(err))
}

func TestIntegration_GroupMembershipLifecycle(t *testing.T) {
	ctx := context.Background()
	alice := createTestUser(t, "Alice3", "alice3.group@test.local")
	bob := createTestUser(t, "Bob3", "bob3.group@test.local")
	carol := createTestUser(t, "Carol3", "carol3.group@test.local")

	group, err := chatRepo.CreateGroupChat(ctx, "team", []string{alice, bob}, alice)
	assert.NoError(t, err)
	assert.True(t, group.IsGroup)
	assert.Len(t, group.Members, 2)

	// add a third member
	updated, err := chatRepo.AddUserToGroup(ctx, group.ID, carol)
	assert.NoError(t, err)
	assert.Len(t, updated.Members, 3)

	// adding the same member again is a conflict
	_, err = chatRepo.AddUserToGroup(ctx, group.ID, carol)
	assert.True(t, errprocess.IsConflict(err))

	// unknown chat
	_, err = chatRepo.AddUserToGroup(ctx, primitive.NewObjectID().Hex(), carol)
	assert.True(t, errprocess.IsNotFound(err))

	// removing a non-member is a conflict
	stranger := createTestUser(t, "Dave3", "dave3.group@test.local")
	_, err = chatRepo.RemoveUserFromGroup(ctx, group.ID, stranger)
	assert.True(t, errprocess.IsConflict(err))

	updated, err = chatRepo.RemoveUserFromGroup(ctx, group.ID, carol)
	assert.NoError(t, err)
	assert.Len(t, updated.Members, 2)
}

func TestIntegration_GroupSelfDestruct(t *testing.T) {
	ctx := context.Background()
	alice := createTestUser(t, "Alice4", "alice4.destruct@test.local")
	bob := createTestUser(t, "Bob4", "bob4.destruct@test.local")

	group, err := chatRepo.CreateGroupChat(ctx, "doomed", []string{alice, bob}, alice)
	assert.NoError(t, err)

	_, err = chatRepo.LeaveChat(ctx, group.ID, alice)
	assert.NoError(t, err)

	// last member walking out deletes the group
	last, err := chatRepo.LeaveChat(ctx, group.ID, bob)
	assert.NoError(t, err)
	assert.Nil(t, last)

	_, err = chatRepo.FindOne(ctx, group.ID)
	assert.True(t, errprocess.IsNotFound(err))
}

func TestIntegration_JoinLeavePrivateRejected(t *testing.T) {
	ctx := context.Background()
	alice := createTestUser(t, "Alice5", "alice5.join@test.local")
	bob := createTestUser(t, "Bob5", "bob5.join@test.local")
	carol := createTestUser(t, "Carol5", "carol5.join@test.local")

	private, err := chatRepo.CreatePrivateChat(ctx, alice, bob)
	assert.NoError(t, err)

	_, err = chatRepo.JoinChat(ctx, private.ID, carol)
	assert.True(t, errprocess.IsInvalidArgument(err))

	_, err = chatRepo.LeaveChat(ctx, private.ID, alice)
	assert.True(t, errprocess.IsInvalidArgument(err))
}

func TestIntegration_MessageFlow(t *testing.T) {
	ctx := context.Background()
	alice := createTestUser(t, "Alice6", "alice6.msg@test.local")
	bob := createTestUser(t, "Bob6", "bob6.msg@test.local")

	chat, err := chatRepo.CreatePrivateChat(ctx, alice, bob)
	assert.NoError(t, err)

	first, err := messageRepo.SaveMessage(ctx, chat.ID, alice, "plain hello", domain.MessageTypeText, nil)
	assert.NoError(t, err)
	assert.False(t, first.IsFormatted)
	assert.Equal(t, "Alice6", first.Sender.Name)
	if assert.NotNil(t, first.Chat) {
		assert.Equal(t, chat.ID, first.Chat.ID)
	}

	second, err := messageRepo.SaveMessage(ctx, chat.ID, bob, "**bold** reply", domain.MessageTypeText, nil)
	assert.NoError(t, err)
	assert.True(t, second.IsFormatted)

	assert.NoError(t, chatRepo.UpdateLastMessage(ctx, chat.ID, second.ID))

	history, err := messageRepo.GetMessages(ctx, chat.ID)
	assert.NoError(t, err)
	if assert.Len(t, history, 2) {
		assert.Equal(t, first.ID, history[0].ID)
		assert.Equal(t, second.ID, history[1].ID)
	}

	chats, err := chatRepo.GetUserChats(ctx, alice, "")
	assert.NoError(t, err)
	if assert.Len(t, chats, 1) {
		if assert.NotNil(t, chats[0].LastMessage) {
			assert.Equal(t, second.ID, chats[0].LastMessage.ID)
			assert.Equal(t, "Bob6", chats[0].LastMessage.SenderName)
		}
	}
}

func TestIntegration_ImageURLRewrite(t *testing.T) {
	ctx := context.Background()
	alice := createTestUser(t, "Alice7", "alice7.img@test.local")
	bob := createTestUser(t, "Bob7", "bob7.img@test.local")

	chat, err := chatRepo.CreatePrivateChat(ctx, alice, bob)
	assert.NoError(t, err)

	meta := &domain.FileMetadata{
		OriginalName: "my photo.png",
		FileName:     "photo 1.png",
		FileSize:     1024,
		MimeType:     "image/png",
		URL:          "https://elsewhere.example/photo.png",
	}
	msg, err := messageRepo.SaveMessage(ctx, chat.ID, alice, "", domain.MessageTypeImage, meta)
	assert.NoError(t, err)
	if assert.NotNil(t, msg.FileMetadata) {
		assert.Equal(t, "/uploads/photo%201.png", msg.FileMetadata.URL)
	}
}

func TestIntegration_AttachmentValidation(t *testing.T) {
	ctx := context.Background()
	alice := createTestUser(t, "Alice8", "alice8.val@test.local")
	bob := createTestUser(t, "Bob8", "bob8.val@test.local")

	chat, err := chatRepo.CreatePrivateChat(ctx, alice, bob)
	assert.NoError(t, err)

	_, err = messageRepo.SaveMessage(ctx, chat.ID, alice, "", domain.MessageTypeFile, nil)
	assert.True(t, errprocess.IsInvalidArgument(err))

	_, err = messageRepo.SaveMessage(ctx, chat.ID, alice, "hi", "carrier-pigeon", nil)
	assert.True(t, errprocess.IsInvalidArgument(err))

	// metadata on a text message is dropped, not an error
	msg, err := messageRepo.SaveMessage(ctx, chat.ID, alice, "hi", domain.MessageTypeText, &domain.FileMetadata{FileName: "x"})
	assert.NoError(t, err)
	assert.Nil(t, msg.FileMetadata)
}

func TestIntegration_SearchFilter(t *testing.T) {
	ctx := context.Background()
	alice := createTestUser(t, "Alice9", "alice9.search@test.local")
	bob := createTestUser(t, "Bob9", "bob9.search@test.local")

	_, err := chatRepo.CreateGroupChat(ctx, "Project Apollo", []string{alice, bob}, alice)
	assert.NoError(t, err)
	_, err = chatRepo.CreateGroupChat(ctx, "Lunch Club", []string{alice, bob}, alice)
	assert.NoError(t, err)

	chats, err := chatRepo.GetUserChats(ctx, alice, "apollo")
	assert.NoError(t, err)
	if assert.Len(t, chats, 1) {
		assert.Equal(t, "Project Apollo", chats[0].Name)
	}
}

func TestIntegration_OrphanedMessagesAndDanglingPointer(t *testing.T) {
	ctx := context.Background()
	alice := createTestUser(t, "Alice10", "alice10.orphan@test.local")
	bob := createTestUser(t, "Bob10", "bob10.orphan@test.local")

	chat, err := chatRepo.CreateGroupChat(ctx, "short lived", []string{alice, bob}, alice)
	assert.NoError(t, err)

	msg, err := messageRepo.SaveMessage(ctx, chat.ID, alice, "going down with the ship", domain.MessageTypeText, nil)
	assert.NoError(t, err)
	assert.NoError(t, chatRepo.UpdateLastMessage(ctx, chat.ID, msg.ID))

	// dangling last-message pointer reads back as no preview
	assert.NoError(t, messageRepo.Delete(ctx, msg.ID))
	found, err := chatRepo.FindOne(ctx, chat.ID)
	assert.NoError(t, err)
	assert.Nil(t, found.LastMessage)

	// deleting the chat orphans remaining messages but they stay readable
	msg2, err := messageRepo.SaveMessage(ctx, chat.ID, alice, "still here", domain.MessageTypeText, nil)
	assert.NoError(t, err)
	assert.NoError(t, chatRepo.Delete(ctx, chat.ID))

	orphan, err := messageRepo.GetMessageByID(ctx, msg2.ID)
	assert.NoError(t, err)
	assert.Nil(t, orphan.Chat)
	assert.Equal(t, chat.ID, orphan.ChatID)

	// pointer updates against the deleted chat stay silent
	assert.NoError(t, chatRepo.UpdateLastMessage(ctx, chat.ID, msg2.ID))
}
