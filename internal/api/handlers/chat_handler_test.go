package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	chatapp "chat_backend_service/internal/chat/app"
	"chat_backend_service/internal/chat/domain"
	errprocess "chat_backend_service/pkg/err"
	"chat_backend_service/pkg/middlewares"
)

func uploadTestApp(h *ChatHandler, callerID string) *fiber.App {
	app := fiber.New()
	app.Post("/chats/upload", func(c *fiber.Ctx) error {
		c.Locals(middlewares.TokenUserID, callerID)
		return h.Upload(c)
	})
	return app
}

func multipartUpload(t *testing.T, fileName, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	assert.NoError(t, err)
	_, err = part.Write(data)
	assert.NoError(t, err)

	for k, v := range fields {
		assert.NoError(t, w.WriteField(k, v))
	}
	assert.NoError(t, w.Close())

	return &body, w.FormDataContentType()
}

func TestChatHandler_Upload_SavesMessage(t *testing.T) {
	chatID := primitive.NewObjectID().Hex()
	senderID := primitive.NewObjectID().Hex()
	data := []byte("fake png bytes")

	meta := &domain.FileMetadata{
		OriginalName: "photo.png",
		FileName:     "stored.png",
		FileSize:     int64(len(data)),
		MimeType:     "image/png",
		URL:          "/uploads/stored.png",
	}
	saved := &domain.MessageResponse{
		ID:           primitive.NewObjectID().Hex(),
		ChatID:       chatID,
		Content:      "photo.png",
		Type:         domain.MessageTypeImage,
		FileMetadata: meta,
	}

	mockUploadUC := new(chatapp.MockUploadUseCase)
	mockUploadUC.On("Upload", mock.Anything, "photo.png", int64(len(data)), "image/png", mock.Anything).
		Return(meta, nil)

	mockMessageUC := new(chatapp.MockMessageUseCase)
	mockMessageUC.On("SaveMessage", mock.Anything, chatID, senderID, "photo.png", domain.MessageTypeImage, meta).
		Return(saved, nil)

	h := NewChatHandler(new(chatapp.MockChatUseCase), mockMessageUC, mockUploadUC)
	app := uploadTestApp(h, senderID)

	body, contentType := multipartUpload(t, "photo.png", "image/png", data, map[string]string{"chatId": chatID})
	req := httptest.NewRequest(fiber.MethodPost, "/chats/upload", body)
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got struct {
		Message domain.MessageResponse `json:"message"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, saved.ID, got.Message.ID)
	assert.Equal(t, "photo.png", got.Message.Content)
	assert.Equal(t, domain.MessageTypeImage, got.Message.Type)
	if assert.NotNil(t, got.Message.FileMetadata) {
		assert.Equal(t, meta.URL, got.Message.FileMetadata.URL)
	}

	mockUploadUC.AssertExpectations(t)
	mockMessageUC.AssertExpectations(t)
}

func TestChatHandler_Upload_MissingChatID(t *testing.T) {
	mockUploadUC := new(chatapp.MockUploadUseCase)
	mockMessageUC := new(chatapp.MockMessageUseCase)

	h := NewChatHandler(new(chatapp.MockChatUseCase), mockMessageUC, mockUploadUC)
	app := uploadTestApp(h, primitive.NewObjectID().Hex())

	body, contentType := multipartUpload(t, "notes.txt", "text/plain", []byte("hello"), nil)
	req := httptest.NewRequest(fiber.MethodPost, "/chats/upload", body)
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// nothing is stored and no message is written without a chat
	mockUploadUC.AssertNotCalled(t, "Upload",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockMessageUC.AssertNotCalled(t, "SaveMessage",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChatHandler_Upload_NonMember(t *testing.T) {
	chatID := primitive.NewObjectID().Hex()
	senderID := primitive.NewObjectID().Hex()
	data := []byte("clip")

	meta := &domain.FileMetadata{
		OriginalName: "clip.mp4",
		FileName:     "stored.mp4",
		FileSize:     int64(len(data)),
		MimeType:     "video/mp4",
		URL:          "/uploads/stored.mp4",
	}

	mockUploadUC := new(chatapp.MockUploadUseCase)
	mockUploadUC.On("Upload", mock.Anything, "clip.mp4", int64(len(data)), "video/mp4", mock.Anything).
		Return(meta, nil)

	mockMessageUC := new(chatapp.MockMessageUseCase)
	mockMessageUC.On("SaveMessage", mock.Anything, chatID, senderID, "clip.mp4", domain.MessageTypeVideo, meta).
		Return(nil, errprocess.NewConflict("user is not a member of this chat"))

	h := NewChatHandler(new(chatapp.MockChatUseCase), mockMessageUC, mockUploadUC)
	app := uploadTestApp(h, senderID)

	body, contentType := multipartUpload(t, "clip.mp4", "video/mp4", data, map[string]string{"chatId": chatID})
	req := httptest.NewRequest(fiber.MethodPost, "/chats/upload", body)
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
