package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	IMAPHost     string
	IMAPPort     int
	IMAPUsername string
	IMAPPassword string
	IMAPFolder   string

	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string

	GeminiAPIKey string
	GeminiModel  string
	LLMRateRPS   float64

	EmbeddingBaseURL string
	EmbeddingAPIKey  string
	EmbeddingModel   string
	RetrievalTopK    int
	RetrievalTTL     time.Duration

	TrackerBaseURL    string
	TrackerUser       string
	TrackerToken      string
	TrackerProjectKey string

	RedisURL      string
	AsynqQueue    string
	BatchInterval time.Duration

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string
	ArchiveEnabled bool

	AttachmentDir string

	BatchWindow   time.Duration
	BatchLimit    int
	BatchDeadline time.Duration

	TicketRetryAttempts int
	TicketRetryDelay    time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	minioEndpoint := getEnv("MINIO_ENDPOINT", "")
	archiveEnabled := strings.EqualFold(getEnv("ATTACHMENT_ARCHIVE_ENABLED", "true"), "true")

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		IMAPHost:     getEnv("IMAP_HOST", ""),
		IMAPPort:     mustInt(getEnv("IMAP_PORT", "993")),
		IMAPUsername: getEnv("IMAP_USERNAME", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),
		IMAPFolder:   getEnv("IMAP_FOLDER", "INBOX"),

		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "AIG Team"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		LLMRateRPS:   mustFloat(getEnv("LLM_RATE_RPS", "1")),

		EmbeddingBaseURL: getEnv("EMBEDDING_BASE_URL", ""),
		EmbeddingAPIKey:  getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		RetrievalTopK:    mustInt(getEnv("RETRIEVAL_TOP_K", "2")),
		RetrievalTTL:     mustDuration(getEnv("RETRIEVAL_CACHE_TTL", "10m")),

		TrackerBaseURL:    getEnv("TRACKER_BASE_URL", ""),
		TrackerUser:       getEnv("TRACKER_USER", ""),
		TrackerToken:      getEnv("TRACKER_TOKEN", ""),
		TrackerProjectKey: getEnv("TRACKER_PROJECT_KEY", "CLAIM"),

		RedisURL:      getEnv("REDIS_URL", ""),
		AsynqQueue:    getEnv("ASYNQ_QUEUE", "default"),
		BatchInterval: mustDuration(getEnv("BATCH_INTERVAL", "5m")),

		MinioEndpoint:  minioEndpoint,
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioUseSSL:    strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucket:    getEnv("MINIO_BUCKET_ATTACHMENTS", "claim-attachments"),
		ArchiveEnabled: archiveEnabled && minioEndpoint != "",

		AttachmentDir: getEnv("ATTACHMENT_DIR", ""),

		BatchWindow:   mustDuration(getEnv("BATCH_WINDOW", "20m")),
		BatchLimit:    mustInt(getEnv("BATCH_LIMIT", "10")),
		BatchDeadline: mustDuration(getEnv("BATCH_DEADLINE", "4m")),

		TicketRetryAttempts: mustInt(getEnv("TICKET_RETRY_ATTEMPTS", "3")),
		TicketRetryDelay:    mustDuration(getEnv("TICKET_RETRY_DELAY", "5s")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.IMAPHost == "" || cfg.IMAPUsername == "" {
		return nil, fmt.Errorf("IMAP_HOST and IMAP_USERNAME are required")
	}
	if cfg.SMTPHost == "" || cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("SMTP_HOST and EMAIL_FROM_ADDRESS are required")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.TrackerBaseURL == "" || cfg.TrackerToken == "" {
		return nil, fmt.Errorf("TRACKER_BASE_URL and TRACKER_TOKEN are required")
	}
	if cfg.BatchLimit < 1 {
		return nil, fmt.Errorf("BATCH_LIMIT must be at least 1")
	}
	if cfg.TicketRetryAttempts < 1 {
		return nil, fmt.Errorf("TICKET_RETRY_ATTEMPTS must be at least 1")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

func mustFloat(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}
