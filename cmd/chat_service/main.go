package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"chat_backend_service/internal/api/handlers"
	apirouter "chat_backend_service/internal/api/router"
	chatapp "chat_backend_service/internal/chat/app"
	chatrepo "chat_backend_service/internal/chat/repository"
	chatrouter "chat_backend_service/internal/chat/router"
	userapp "chat_backend_service/internal/user/app"
	userdomain "chat_backend_service/internal/user/domain"
	userrepo "chat_backend_service/internal/user/repository"
	"chat_backend_service/pkg/config"
	"chat_backend_service/pkg/database"
	"chat_backend_service/pkg/logger"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatService, config.EnvConfig.ChatServiceLogPath)
	cfg := config.LoadConfig[config.Chat](config.EnvConfig.ChatService, config.EnvConfig.ChatServiceYAMLPath)

	ctx := context.Background()
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.Mongo.User, cfg.Mongo.Password, cfg.Mongo.Host, cfg.Mongo.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    uri,
			RetryCount:    cfg.Mongo.RetryCount,
			RetryInterval: time.Duration(cfg.Mongo.RetryInterval),
		},
		cfg.Mongo.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s]", uri)),
			zap.Error(err),
		)
	}
	defer mongo.Close(ctx)

	redisClient, err := database.NewRedisClient(cfg.Redis.Addr, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:      cfg.MinIO.Endpoint,
		User:          cfg.MinIO.User,
		Password:      cfg.MinIO.Password,
		BucketName:    cfg.MinIO.Bucket,
		UseSSL:        cfg.MinIO.UseSSL,
		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: time.Duration(cfg.MinIO.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect minio err : %v", err))
	}

	chatRepo := chatrepo.NewMongoChatRepository(mongo.Database)
	messageRepo := chatrepo.NewMongoMessageRepository(mongo.Database)
	usersRepo := userrepo.NewMongoUserRepository(mongo.Database)
	sessionRepo := database.NewRedisRepository[userdomain.UserSession](redisClient)

	chatUC := chatapp.NewChatUseCase(chatRepo, messageRepo, usersRepo)
	messageUC := chatapp.NewMessageUseCase(messageRepo, chatRepo)
	uploadUC := chatapp.NewUploadUseCase(minioClient)
	userUC := userapp.NewUserUseCase(usersRepo, cfg.SessionTTL, sessionRepo)

	hub := chatapp.NewRoomHub()
	presence := chatapp.NewPresenceRegistry()
	gateway := chatapp.NewGateway(hub, presence, chatUC, messageUC)

	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.ChatServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	apirouter.RegisterRoutes(r, handlers.NewUserHandler(userUC), handlers.NewChatHandler(chatUC, messageUC, uploadUC))
	chatrouter.RegisterRoutes(r, gateway)

	port := ":" + cfg.Port
	log.Printf("Chat Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
