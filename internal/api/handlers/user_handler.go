package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	userapp "chat_backend_service/internal/user/app"
	"chat_backend_service/pkg/logger"
	"chat_backend_service/pkg/middlewares"
)

// UserHandler HTTP surface of the user collaborator
type UserHandler struct {
	UserUC userapp.UserUseCase
}

// NewUserHandler create new UserHandler
func NewUserHandler(userUC userapp.UserUseCase) *UserHandler {
	return &UserHandler{UserUC: userUC}
}

// Register create a new user account
func (h *UserHandler) Register(c *fiber.Ctx) error {
	type request struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Debug("Register request", zap.String("email", req.Email))

	user, err := h.UserUC.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{"message": "register success", "user": user})
}

// Login exchange credentials for a token
func (h *UserHandler) Login(c *fiber.Ctx) error {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	tokenStr, err := h.UserUC.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"token": tokenStr, "message": "login success"})
}

// Logout end the caller's session
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	tokenStr := middlewares.TokenFromRequest(c)
	if tokenStr == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token required"})
	}

	if err := h.UserUC.Logout(c.Context(), tokenStr); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{"message": "logout success"})
}

// Find look up one user by email
func (h *UserHandler) Find(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email is required"})
	}

	user, err := h.UserUC.FindByEmail(c.Context(), email)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// List all registered users
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.UserUC.FindAll(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{"users": users})
}
