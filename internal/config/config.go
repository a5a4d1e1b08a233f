package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Store backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMinIO    = "minio"
	BackendMemory   = "memory"
)

// DefaultStoreKey is the fixed key the content collection is stored under.
const DefaultStoreKey = "advanced-editor-content"

// StoreConfig selects and configures the content store.
type StoreConfig struct {
	Backend string `validate:"oneof=file postgres redis minio memory"`
	Key     string `validate:"required"`
	// ResetOnMalformed starts with an empty collection, with a warning,
	// when the stored record cannot be decoded. Startup fails otherwise.
	ResetOnMalformed bool
	FileDir          string `validate:"required_if=Backend file"`
}

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// RedisConfig holds the Redis connection URL.
type RedisConfig struct {
	URL string
}

// LogConfig holds logging settings. File enables a rotating log file in
// addition to stdout.
type LogConfig struct {
	Level          string `validate:"oneof=debug info warn error"`
	Format         string `validate:"oneof=json text"`
	File           string
	FileMaxSizeMB  int `validate:"min=1"`
	FileMaxBackups int `validate:"min=0"`
	FileMaxAgeDays int `validate:"min=0"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string `validate:"required,numeric"`
	Store    StoreConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
	Redis    RedisConfig
	Log      LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Store: StoreConfig{
			Backend:          strings.ToLower(getEnv("STORE_BACKEND", BackendFile)),
			Key:              getEnv("STORE_KEY", DefaultStoreKey),
			ResetOnMalformed: getEnvBool("STORE_RESET_ON_MALFORMED", false),
			FileDir:          getEnv("STORE_FILE_DIR", "./data"),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Log: LogConfig{
			Level:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format:         strings.ToLower(getEnv("LOG_FORMAT", "json")),
			File:           getEnv("LOG_FILE", ""),
			FileMaxSizeMB:  getEnvInt("LOG_FILE_MAX_SIZE_MB", 100),
			FileMaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 3),
			FileMaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 28),
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the loaded values. Backend-specific connection settings
// are checked by the constructors that use them.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", e.Namespace(), e.Tag()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
