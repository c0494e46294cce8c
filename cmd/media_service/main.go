package main

import (
	"fmt"
	"time"

	"lesson_media_service/internal/media/api/handlers"
	"lesson_media_service/internal/media/api/router"
	"lesson_media_service/internal/media/app"
	mediadomain "lesson_media_service/internal/media/domain"
	"lesson_media_service/internal/media/repository"
	"lesson_media_service/pkg/config"
	"lesson_media_service/pkg/database"
	"lesson_media_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.MediaService, config.EnvConfig.MediaServiceLogPath)

	cfg := config.LoadConfig[config.MediaService](config.EnvConfig.MediaService, config.EnvConfig.MediaServiceYAMLPath)

	// 1. PostgreSQL
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		cfg.PostgreSQL.Host, cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Database, cfg.PostgreSQL.Port)
	db, err := database.NewPGConnection(database.Connection{
		ConnectStr: dsn,

		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s]", dsn)),
			zap.Error(err),
		)
	}

	videoRepo := repository.NewVideoRepo(db)
	if err := videoRepo.AutoMigrate(); err != nil {
		logger.Log.Fatal("video table migration failed", zap.Error(err))
	}
	// lesson/class tables belong to the course system; migrate them here only
	// so a fresh local environment can run end to end
	if err := db.AutoMigrate(&mediadomain.Lesson{}, &mediadomain.Class{}); err != nil {
		logger.Log.Fatal("course table migration failed", zap.Error(err))
	}
	courseDir := repository.NewCourseDirectory(db)

	// 2. MinIO
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:   cfg.MinIO.MinIOEndpoint(),
		User:       cfg.MinIO.User,
		Password:   cfg.MinIO.Password,
		BucketName: cfg.MinIO.BucketName,
		UseSSL:     cfg.MinIO.UseSSL,

		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: cfg.MinIO.RetryInterval,
	})
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to minio after retries",
			zap.String("address", cfg.MinIO.MinIOEndpoint()),
			zap.Error(err),
		)
	}

	// 3. RabbitMQ producer channel
	rabbitURL := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.IP, cfg.RabbitMQ.Port)
	conn, err := database.ConnectRabbitMQWithRetry(database.Connection{
		ConnectStr:    rabbitURL,
		RetryCount:    cfg.RabbitMQ.RetryCount,
		RetryInterval: cfg.RabbitMQ.RetryInterval,
	})
	if err != nil {
		logger.Log.Fatal("RabbitMQ connect failed", zap.Error(err))
	}
	defer conn.Close()

	rabbitChannel, err := database.GetRabbitMQChannelWithRetry(conn, cfg.RabbitMQ.RetryCount, cfg.RabbitMQ.RetryInterval)
	if err != nil {
		logger.Log.Fatal("RabbitMQ channel open failed", zap.Error(err))
	}
	defer rabbitChannel.Close()

	if _, err := rabbitChannel.QueueDeclare(
		mediadomain.QueueName, // queue name
		true,                  // durable
		false,                 // autoDelete
		false,                 // exclusive
		false,                 // noWait
		nil,                   // arguments
	); err != nil {
		logger.Log.Fatal("queue declare failed", zap.Error(err))
	}

	usecase := app.NewMediaUseCase(minioClient, videoRepo, courseDir, database.NewRabbitRepository(rabbitChannel))

	r := fiber.New()
	router.RegisterRoutes(r, handlers.NewVideoHandler(usecase))

	logger.Log.Info(fmt.Sprintf("media service listening on :%s", cfg.Port))
	if err := r.Listen(cfg.IP + ":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server failed to start", zap.Error(err))
	}
}
