package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvInfo service names, ports and paths collected from .env
type EnvInfo struct {
	// image name
	MediaService        string
	TranscodeWorker     string
	NotificationService string

	// service ports
	MediaServicePort        string
	NotificationServicePort string

	// service yaml path
	MediaServiceYAMLPath        string
	TranscodeWorkerYAMLPath     string
	NotificationServiceYAMLPath string

	// service log path
	MediaServiceLogPath        string
	TranscodeWorkerLogPath     string
	NotificationServiceLogPath string
}

// EnvConfig service settings loaded once at startup
var (
	EnvConfig = initEnv()
	envConfig EnvInfo
	once      sync.Once
	env       string
)

func initEnv() EnvInfo {
	once.Do(func() {
		path, err := GetPath(".env", 5)
		if err != nil {
			log.Printf("Warning: Could not get .env path: %v", err)
		}

		if err := godotenv.Load(path); err != nil {
			log.Printf("Warning: Could not load .env file: %v", err)
		}

		env = os.Getenv("ENV")

		envConfig = EnvInfo{
			MediaService:        os.Getenv("MEDIA_SERVICE"),
			TranscodeWorker:     os.Getenv("TRANSCODE_WORKER"),
			NotificationService: os.Getenv("NOTIFICATION_SERVICE"),

			MediaServicePort:        os.Getenv("MEDIA_SERVICE_PORT"),
			NotificationServicePort: os.Getenv("NOTIFICATION_SERVICE_PORT"),

			MediaServiceYAMLPath:        os.Getenv("MEDIA_SERVICE_YAML"),
			TranscodeWorkerYAMLPath:     os.Getenv("TRANSCODE_WORKER_YAML"),
			NotificationServiceYAMLPath: os.Getenv("NOTIFICATION_SERVICE_YAML"),

			MediaServiceLogPath:        os.Getenv("MEDIA_SERVICE_LOG"),
			TranscodeWorkerLogPath:     os.Getenv("TRANSCODE_WORKER_LOG"),
			NotificationServiceLogPath: os.Getenv("NOTIFICATION_SERVICE_LOG"),
		}
	})

	return envConfig
}

// IsProduction check run env
func IsProduction() bool {
	return env == "production"
}

// IsLocal check run env
func IsLocal() bool {
	return env == "local"
}

// LoadConfig read the service YAML, expand ${} env placeholders and unmarshal
func LoadConfig[T any](serviceName string, configPath string) T {
	v := viper.New()
	v.SetConfigName(serviceName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("Error loading config file: %v", err)
	}

	rawConfig, err := os.ReadFile(v.ConfigFileUsed())
	if err != nil {
		log.Fatalf("Error reading raw config file: %v", err)
	}

	expandedConfig := os.ExpandEnv(string(rawConfig))

	if err := v.ReadConfig(bytes.NewBuffer([]byte(expandedConfig))); err != nil {
		log.Fatalf("Error reading expanded config: %v", err)
	}

	var cfg T
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Error unmarshaling config: %v", err)
	}
	return cfg
}

// GetPath use fileName loop maxCount find file path
func GetPath(fileName string, maxCount int) (string, error) {
	path := "./" + fileName

	for i := 0; i < maxCount; i++ {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		path = "../" + path
	}
	return "", errors.New(fileName + " can't find path")
}

// MinIOEndpoint compose the minio endpoint string from config
func (c MinIOConfig) MinIOEndpoint() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
