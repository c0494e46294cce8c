package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"lesson_media_service/internal/media/app"
	"lesson_media_service/internal/media/domain"
	"lesson_media_service/internal/media/repository"
	"lesson_media_service/pkg/config"
	"lesson_media_service/pkg/database"
	"lesson_media_service/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.TranscodeWorker, config.EnvConfig.TranscodeWorkerLogPath)

	cfg := config.LoadConfig[config.TranscodeWorker](config.EnvConfig.TranscodeWorker, config.EnvConfig.TranscodeWorkerYAMLPath)

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

	// 3. RabbitMQ consumer channel
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
		domain.QueueName, // queue name
		true,             // durable
		false,            // autoDelete
		false,            // exclusive
		false,            // noWait
		nil,              // arguments
	); err != nil {
		logger.Log.Fatal("queue declare failed", zap.Error(err))
	}

	// 4. Kafka event stream
	kafkaWriter, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
		Brokers:       cfg.Kafka.Brokers,
		Topic:         cfg.Kafka.Topic,
		RetryCount:    cfg.Kafka.RetryCount,
		RetryInterval: cfg.Kafka.RetryInterval,
	})
	if err != nil {
		logger.Log.Fatal("Kafka writer setup failed", zap.Error(err))
	}
	defer kafkaWriter.Close()

	processor := app.NewProcessor(
		minioClient,
		videoRepo,
		courseDir,
		repository.NewHTTPDispatcher(cfg.NotifyEndpoint),
		cfg.WorkDir,
	)
	consumer := app.NewConsumer(rabbitChannel, processor, database.NewEventStreamRepository(kafkaWriter), domain.QueueName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil {
		logger.Log.Fatal("consumer stopped with error", zap.Error(err))
	}
}
