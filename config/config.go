package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const defaultDatabaseName = "exercise_tracker"

type Config struct {
	ServerPort int    `env:"PORT" envDefault:"3000"`
	StaticDir  string `env:"STATIC_DIR" envDefault:"public"`
	ViewsDir   string `env:"VIEWS_DIR" envDefault:"views"`
	Database   DatabaseConfig
	Log        LogConfig
	Storage    StorageConfig
	MQ         MQConfig
}

type DatabaseConfig struct {
	URI            string `env:"MONGO_URI"`
	Name           string `env:"MONGO_DATABASE"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"internal/db/migrations"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// StorageConfig selects where static assets are served from.
// Backend is one of "local", "minio" or "gcs".
type StorageConfig struct {
	Backend string `env:"STORAGE_BACKEND" envDefault:"local"`
	// CacheControl is stored on uploaded assets and sent when serving them.
	CacheControl string `env:"ASSET_CACHE_CONTROL" envDefault:"public, max-age=3600"`
	Minio        MinioConfig
	GCS          GCSConfig
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET"`
	UseSSL    bool   `env:"MINIO_USE_SSL"`
}

type GCSConfig struct {
	Bucket          string `env:"GCS_BUCKET"`
	ProjectID       string `env:"GCS_PROJECT_ID"`
	CredentialsFile string `env:"GCS_CREDENTIALS_FILE"`
}

// MQConfig selects the event broker. An empty Backend disables event publishing.
type MQConfig struct {
	Backend  string `env:"MQ_BACKEND"`
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
}

type RabbitMQConfig struct {
	URL             string `env:"RABBITMQ_URL"`
	Exchange        string `env:"RABBITMQ_EXCHANGE" envDefault:"tracker.events"`
	QueueDurable    bool   `env:"RABBITMQ_QUEUE_DURABLE" envDefault:"true"`
	QueueAutoDelete bool   `env:"RABBITMQ_QUEUE_AUTO_DELETE"`
	PrefetchCount   int    `env:"RABBITMQ_PREFETCH_COUNT" envDefault:"10"`
}

type PubSubConfig struct {
	ProjectID          string `env:"PUBSUB_PROJECT_ID"`
	CredentialsFile    string `env:"PUBSUB_CREDENTIALS_FILE"`
	SubscriptionSuffix string `env:"PUBSUB_SUBSCRIPTION_SUFFIX" envDefault:"-sub"`
}

func LoadConfig() (Config, error) {
	if os.Getenv("ENV") == "dev" || fileExists(".env") {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.MQ.Backend = strings.ToLower(strings.TrimSpace(cfg.MQ.Backend))
	if cfg.ServerPort == 0 {
		cfg.ServerPort = 3000
	}
	return cfg, nil
}

// Validate reports configuration that would make the server fail at startup.
// It is skipped when the server runs against in-memory repositories.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.URI) == "" {
		return errors.New("MONGO_URI is required")
	}
	return nil
}

// DatabaseName resolves the database to use: MONGO_DATABASE, then the
// path component of MONGO_URI, then the built-in default.
func (c DatabaseConfig) DatabaseName() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	if u, err := url.Parse(c.URI); err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDatabaseName
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
