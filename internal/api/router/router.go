package router

import (
	"github.com/gofiber/fiber/v2"

	"chat_backend_service/internal/api/handlers"
	"chat_backend_service/pkg/middlewares"
)

// RegisterRoutes mount the REST surface
func RegisterRoutes(app *fiber.App, userHandler *handlers.UserHandler, chatHandler *handlers.ChatHandler) {
	app.Get("/", handlers.ConnectCheck)
	app.Post("/debug", handlers.DebugLogFlag)

	userRoutes := app.Group("/user")
	userRoutes.Post("/register", userHandler.Register)
	userRoutes.Post("/login", userHandler.Login)
	userRoutes.Get("/find", userHandler.Find)

	userRoutes.Use(middlewares.JWTMiddleware())
	userRoutes.Post("/logout", userHandler.Logout)
	userRoutes.Get("/list", userHandler.List)

	app.Get("/uploads/:fileName", chatHandler.Download)

	chatRoutes := app.Group("/chats", middlewares.JWTMiddleware())
	chatRoutes.Post("/private", chatHandler.CreatePrivateChat)
	chatRoutes.Post("/group", chatHandler.CreateGroup)
	chatRoutes.Get("/", chatHandler.GetUserChats)
	chatRoutes.Get("/:id", chatHandler.GetChat)
	chatRoutes.Get("/:id/messages", chatHandler.GetMessages)
	chatRoutes.Post("/:id/join", chatHandler.JoinChat)
	chatRoutes.Post("/:id/leave", chatHandler.LeaveChat)
	chatRoutes.Delete("/:id", chatHandler.DeleteChat)
	chatRoutes.Post("/upload", chatHandler.Upload)

	app.Delete("/messages/:id", middlewares.JWTMiddleware(), chatHandler.DeleteMessage)
}
