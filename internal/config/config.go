package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	S3         S3Config
	WhatsApp   WhatsAppConfig
	Assignment AssignmentConfig
	Taxonomy   TaxonomyConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines admin authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// S3Config holds object-storage settings for ticket attachments.
type S3Config struct {
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PresignTTLSeconds int
	MaxFileSizeBytes  int64
	MaxFilesPerTicket int
}

// WhatsAppConfig holds the templated-message gateway credentials.
type WhatsAppConfig struct {
	BaseURL        string
	APIKey         string
	APISecret      string
	ChannelID      string
	Enabled        bool
	TimeoutSeconds int
}

// AssignmentConfig tunes the auto-assignment engine. TerminalStatuses
// defines which statuses stop counting toward an assignee's load; it must
// track the taxonomy generation the installation runs
// ("Closed" vs the legacy "Resolved,Dropped").
type AssignmentConfig struct {
	TerminalStatuses []string
}

// TaxonomyConfig controls caching of the dropdown-option snapshot.
type TaxonomyConfig struct {
	CacheTTLSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "support-desk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		S3: S3Config{
			Region:            getEnv("AWS_REGION", "ap-south-1"),
			Bucket:            getEnv("AWS_S3_BUCKET", "support-desk-attachments"),
			AccessKeyID:       os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey:   os.Getenv("AWS_SECRET_ACCESS_KEY"),
			PresignTTLSeconds: getEnvAsInt("S3_PRESIGN_TTL_SECONDS", 3600),
			MaxFileSizeBytes:  int64(getEnvAsInt("S3_MAX_FILE_SIZE_BYTES", 10<<20)),
			MaxFilesPerTicket: getEnvAsInt("S3_MAX_FILES_PER_TICKET", 5),
		},
		WhatsApp: WhatsAppConfig{
			BaseURL:        getEnv("WHATSAPP_BASE_URL", "https://server.gallabox.com/devapi/messages/whatsapp"),
			APIKey:         os.Getenv("WHATSAPP_API_KEY"),
			APISecret:      os.Getenv("WHATSAPP_API_SECRET"),
			ChannelID:      os.Getenv("WHATSAPP_CHANNEL_ID"),
			Enabled:        getEnvAsBool("WHATSAPP_ENABLED", true),
			TimeoutSeconds: getEnvAsInt("WHATSAPP_TIMEOUT_SECONDS", 15),
		},
		Assignment: AssignmentConfig{
			TerminalStatuses: getEnvAsList("TICKET_TERMINAL_STATUSES", []string{"Closed"}),
		},
		Taxonomy: TaxonomyConfig{
			CacheTTLSeconds: getEnvAsInt("TAXONOMY_CACHE_TTL_SECONDS", 300),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// PresignTTL returns the presigned-URL lifetime.
func (s S3Config) PresignTTL() time.Duration {
	if s.PresignTTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(s.PresignTTLSeconds) * time.Second
}

// Timeout returns the gateway request timeout.
func (w WhatsAppConfig) Timeout() time.Duration {
	if w.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(w.TimeoutSeconds) * time.Second
}

// CacheTTL returns the snapshot cache lifetime.
func (t TaxonomyConfig) CacheTTL() time.Duration {
	if t.CacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(t.CacheTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}
