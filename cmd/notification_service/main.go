package main

import (
	"context"
	"fmt"
	"time"

	"lesson_media_service/internal/notification/api/handlers"
	"lesson_media_service/internal/notification/api/router"
	"lesson_media_service/internal/notification/app"
	"lesson_media_service/internal/notification/repository"
	"lesson_media_service/pkg/config"
	"lesson_media_service/pkg/database"
	"lesson_media_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.NotificationService, config.EnvConfig.NotificationServiceLogPath)

	cfg := config.LoadConfig[config.NotificationService](config.EnvConfig.NotificationService, config.EnvConfig.NotificationServiceYAMLPath)

	// 1. MongoDB inbox
	mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.Mongo.User, cfg.Mongo.Password, cfg.Mongo.Host, cfg.Mongo.Port)
	mongoDB, err := database.NewMongoDB(context.Background(), database.Connection{
		ConnectStr:    mongoURI,
		RetryCount:    cfg.Mongo.RetryCount,
		RetryInterval: time.Duration(cfg.Mongo.RetryInterval) * time.Second,
	}, cfg.Mongo.Database)
	if err != nil {
		logger.Log.Fatal("Unable to connect to mongoDB after retries", zap.Error(err))
	}
	defer mongoDB.Close(context.Background())

	// 2. Redis fan-out
	redisClient, err := database.NewRedisClient(
		fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port), cfg.Redis.Password, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal("Unable to connect to redis", zap.Error(err))
	}

	inbox := repository.NewMongoInboxRepository(mongoDB.Database)
	pubsub := repository.NewRedisPubSub(redisClient)

	usecase := app.NewNotificationUseCase(inbox, pubsub)
	wsHandler := app.NewNotificationWebsocketHandler(pubsub)

	r := fiber.New()
	router.RegisterRoutes(r, handlers.NewNotificationHandler(usecase), wsHandler)

	logger.Log.Info(fmt.Sprintf("notification service listening on :%s", cfg.Port))
	if err := r.Listen(cfg.IP + ":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server failed to start", zap.Error(err))
	}
}
