package config

import "time"

// MediaService definition media_service YAML structure
type MediaService struct {
	Port string `mapstructure:"port"`
	IP   string `mapstructure:"ip"`

	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	MinIO      MinIOConfig    `mapstructure:"minio"`
	RabbitMQ   RabbitMQConfig `mapstructure:"rabbitmq"`
}

// TranscodeWorker definition transcode_worker YAML structure
type TranscodeWorker struct {
	// WorkDir root of the per-job scratch directories
	WorkDir string `mapstructure:"work_dir"`
	// NotifyEndpoint notification ingestion endpoint the dispatcher posts to
	NotifyEndpoint string `mapstructure:"notify_endpoint"`

	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	MinIO      MinIOConfig    `mapstructure:"minio"`
	RabbitMQ   RabbitMQConfig `mapstructure:"rabbitmq"`
	Kafka      KafkaConfig    `mapstructure:"kafka"`
}

// NotificationService definition notification_service YAML structure
type NotificationService struct {
	Port string `mapstructure:"port"`
	IP   string `mapstructure:"ip"`

	Mongo DatabaseConfig `mapstructure:"mongo"`
	Redis RedisConfig    `mapstructure:"redis"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	RedisDB  int    `mapstructure:"redis_db"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// MinIOConfig definition minio setting
type MinIOConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	BucketName string `mapstructure:"bucket_name"`
	UseSSL     bool   `mapstructure:"use_ssl"`

	RetryCount    int           `mapstructure:"retry_count"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// RabbitMQConfig definition rabbitmq setting
type RabbitMQConfig struct {
	IP       string `mapstructure:"ip"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`

	RetryCount    int           `mapstructure:"retry_count"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// KafkaConfig definition kafka setting
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`

	RetryCount    int           `mapstructure:"retry_count"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}
