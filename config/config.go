package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"mecahub-backend/pkg/email"
	"mecahub-backend/pkg/redis"
	"mecahub-backend/pkg/storage"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	DBUrl    string
	// Redis holds the shared rate limit store; empty means per-process memory
	Redis redis.Config
	// Object storage for attachments
	S3 storage.S3Config
	// Notification email provider
	Email email.Config
	// Upload hardening
	ClamAVAddress  string
	MaxUploadBytes int64
	// Base URL of the API, used by formctl
	APIBaseURL string
}

func LoadConfig() (*Config, error) {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DBUrl:    getEnv("DATABASE_URL", ""),
		Redis: redis.Config{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		S3: storage.S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Region:          getEnv("S3_REGION", ""),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			PublicBaseURL:   strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
			UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", false),
		},
		Email: email.Config{
			Provider:     strings.ToLower(getEnv("EMAIL_PROVIDER", email.ProviderResend)),
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			ResendAPIURL: getEnv("RESEND_API_URL", ""),
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			From:         getEnv("EMAIL_FROM", email.DefaultFrom),
			Recipient:    getEnv("RECIPIENT_EMAIL", ""),
		},
		ClamAVAddress:  getEnv("CLAMAV_ADDRESS", ""),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 11<<20),
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Upload metadata will not be recorded.")
	}
	if cfg.Redis.URL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory store.")
	}
	if !cfg.S3.Configured() {
		log.Println("WARNING: S3_BUCKET or S3_REGION missing. Uploads will fail.")
	}
	if !cfg.Email.Configured() {
		log.Println("WARNING: email provider or RECIPIENT_EMAIL not configured. Notifications will be refused.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt64 returns an integer environment variable or fallback if not set/invalid
func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
