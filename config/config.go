package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// DefaultMaxUploadSize caps evidence and verification uploads (10 MiB)
	DefaultMaxUploadSize = 10 * 1024 * 1024
)

type Config struct {
	ServerPort  string
	Environment string

	// Primary datastore (OLTP)
	DBPath           string
	TursoDatabaseURL string
	TursoAuthToken   string

	// Analytics datastore (probed by the health check alongside the primary)
	AnalyticsDBPath           string
	AnalyticsTursoDatabaseURL string
	AnalyticsTursoAuthToken   string

	// Uploads
	UploadDir     string
	MaxUploadSize int64

	// Other
	AllowedOrigins []string
	AppURL         string

	// Cloudflare R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:                getEnv("SERVER_PORT", "8080"),
		Environment:               getEnv("ENVIRONMENT", "development"),
		DBPath:                    getEnv("DB_PATH", "db/justice_hammer.db"),
		TursoDatabaseURL:          getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:            getEnv("TURSO_AUTH_TOKEN", ""),
		AnalyticsDBPath:           getEnv("ANALYTICS_DB_PATH", "db/justice_hammer_analytics.db"),
		AnalyticsTursoDatabaseURL: getEnv("ANALYTICS_TURSO_DATABASE_URL", ""),
		AnalyticsTursoAuthToken:   getEnv("ANALYTICS_TURSO_AUTH_TOKEN", ""),
		UploadDir:                 getEnv("UPLOAD_DIR", "static/uploads"),
		MaxUploadSize:             getEnvInt64("MAX_UPLOAD_SIZE", DefaultMaxUploadSize),
		AllowedOrigins:            strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		AppURL:                    getEnv("APP_URL", "http://localhost:8080"),
		R2AccountID:               getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:             getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey:         getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:              getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:               getEnv("R2_PUBLIC_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("[WARNING] Invalid value for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
