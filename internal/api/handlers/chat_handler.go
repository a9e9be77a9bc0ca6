package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	chatapp "chat_backend_service/internal/chat/app"
	"chat_backend_service/pkg/logger"
	"chat_backend_service/pkg/middlewares"
)

// ChatHandler HTTP surface of the chat service. Broadcasts stay on the
// websocket side; these endpoints only touch persistence.
type ChatHandler struct {
	ChatUC    chatapp.ChatUseCase
	MessageUC chatapp.MessageUseCase
	UploadUC  chatapp.UploadUseCase
}

// NewChatHandler create new ChatHandler
func NewChatHandler(chatUC chatapp.ChatUseCase, messageUC chatapp.MessageUseCase, uploadUC chatapp.UploadUseCase) *ChatHandler {
	return &ChatHandler{
		ChatUC:    chatUC,
		MessageUC: messageUC,
		UploadUC:  uploadUC,
	}
}

func callerID(c *fiber.Ctx) string {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	return userID
}

// CreatePrivateChat find or create the chat for the caller and one other user
func (h *ChatHandler) CreatePrivateChat(c *fiber.Ctx) error {
	type request struct {
		UserID string `json:"userId"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	chat, err := h.ChatUC.CreatePrivateChat(c.Context(), callerID(c), req.UserID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{"chat": chat})
}

// CreateGroup create a group chat with the caller as creator
func (h *ChatHandler) CreateGroup(c *fiber.Ctx) error {
	type request struct {
		Name         string   `json:"name"`
		Participants []string `json:"participants"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	chat, err := h.ChatUC.CreateGroup(c.Context(), req.Name, req.Participants, callerID(c))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{"chat": chat})
}

// GetUserChats list the caller's chats, newest activity first
func (h *ChatHandler) GetUserChats(c *fiber.Ctx) error {
	chats, err := h.ChatUC.GetUserChats(c.Context(), callerID(c), c.Query("search"))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{"chats": chats})
}

// GetChat fetch one chat
func (h *ChatHandler) GetChat(c *fiber.Ctx) error {
	chat, err := h.ChatUC.FindOne(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{"chat": chat})
}

// GetMessages full history of one chat in creation order
func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	messages, err := h.MessageUC.GetMessages(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{"messages": messages})
}

// JoinChat add the caller to a group
func (h *ChatHandler) JoinChat(c *fiber.Ctx) error {
	chat, err := h.ChatUC.JoinChat(c.Context(), c.Params("id"), callerID(c))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{"chat": chat})
}

// LeaveChat remove the caller from a group. A deleted (emptied) group
// comes back without a chat body.
func (h *ChatHandler) LeaveChat(c *fiber.Ctx) error {
	change, err := h.ChatUC.LeaveChat(c.Context(), c.Params("id"), callerID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	if change.Chat == nil {
		return c.JSON(fiber.Map{"message": "chat deleted"})
	}

	return c.JSON(fiber.Map{"chat": change.Chat})
}

// DeleteChat drop a chat outright, messages are kept
func (h *ChatHandler) DeleteChat(c *fiber.Ctx) error {
	if err := h.ChatUC.Delete(c.Context(), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{"message": "chat deleted"})
}

// DeleteMessage hard delete of one message
func (h *ChatHandler) DeleteMessage(c *fiber.Ctx) error {
	if err := h.MessageUC.DeleteMessage(c.Context(), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{"message": "message deleted"})
}

// Upload store one attachment and record the message that carries it. The
// original file name doubles as the message content.
func (h *ChatHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	chatID := c.FormValue("chatId")
	if chatID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "chatId is required"})
	}
	senderID := c.FormValue("senderId")
	if senderID == "" {
		senderID = callerID(c)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "cannot read upload"})
	}
	defer f.Close()

	contentType := fileHeader.Header.Get(fiber.HeaderContentType)
	meta, err := h.UploadUC.Upload(c.Context(), fileHeader.Filename, fileHeader.Size, contentType, f)
	if err != nil {
		return errorJSON(c, err)
	}

	msg, err := h.MessageUC.SaveMessage(c.Context(), chatID, senderID,
		fileHeader.Filename, chatapp.MessageTypeForMime(contentType), meta)
	if err != nil {
		return errorJSON(c, err)
	}

	logger.Log.Info("file uploaded",
		zap.String("file_name", meta.FileName), zap.Int64("size", meta.FileSize),
		zap.String("chat_id", chatID))

	return c.JSON(fiber.Map{"message": msg})
}

// Download stream a stored attachment back
func (h *ChatHandler) Download(c *fiber.Ctx) error {
	fileName, err := url.PathUnescape(c.Params("fileName"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid file name"})
	}

	obj, err := h.UploadUC.Download(c.Context(), fileName)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.SendStream(obj)
}
