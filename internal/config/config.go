package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Mail      MailConfig
	Assets    AssetsConfig
	RateLimit RateLimitConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	FrontendBaseURL       string
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

// AuthConfig defines authentication parameters. Session, admin and reset
// tokens each carry their own secret.
type AuthConfig struct {
	SessionSecret          string
	AdminSecret            string
	ResetSecret            string
	SessionTokenTTLMinutes int
	AdminTokenTTLMinutes   int
	ResetTokenTTLMinutes   int
	BcryptCost             int
	// TokenHeader selects the credential extraction strategy: empty or
	// "Authorization" means Bearer scheme; any other value names a raw
	// custom header such as "auth-token".
	TokenHeader string
}

// MailConfig holds SMTP credentials for the notification gateway.
type MailConfig struct {
	Host           string
	Port           string
	Username       string
	Password       string
	From           string
	TimeoutSeconds int
}

// AssetsConfig configures the evidence image store.
type AssetsConfig struct {
	Region         string
	Bucket         string
	KeyPrefix      string
	TimeoutSeconds int
}

// RateLimitConfig throttles repeated denuncia submissions per account.
type RateLimitConfig struct {
	Enabled       bool
	WindowSeconds int
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
			Name:                  getEnv("APP_NAME", "denuncia-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "5000"),
			Version:               getEnv("APP_VERSION", "dev"),
			FrontendBaseURL:       getEnv("FRONTEND_BASE_URL", "http://localhost:5000"),
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
			SessionSecret:          getEnv("TOKEN_SECRET", "dev-secret"),
			AdminSecret:            getEnv("SECRETO_ADMINS", "dev-admin-secret"),
			ResetSecret:            getEnv("RESET_TOKEN_SECRET", "dev-reset-secret"),
			SessionTokenTTLMinutes: getEnvAsInt("AUTH_SESSION_TOKEN_TTL_MINUTES", 60),
			AdminTokenTTLMinutes:   getEnvAsInt("AUTH_ADMIN_TOKEN_TTL_MINUTES", 60),
			ResetTokenTTLMinutes:   getEnvAsInt("AUTH_RESET_TOKEN_TTL_MINUTES", 60),
			BcryptCost:             getEnvAsInt("AUTH_BCRYPT_COST", 10),
			TokenHeader:            getEnv("AUTH_TOKEN_HEADER", "Authorization"),
		},
		Mail: MailConfig{
			Host:           os.Getenv("SMTP_HOST"),
			Port:           getEnv("SMTP_PORT", "587"),
			Username:       os.Getenv("USER_MAILER"),
			Password:       os.Getenv("PASS_MAILER"),
			From:           getEnv("MAIL_FROM", "Denuncia Loja <noreply@example.com>"),
			TimeoutSeconds: getEnvAsInt("SMTP_TIMEOUT_SECONDS", 10),
		},
		Assets: AssetsConfig{
			Region:         getEnv("ASSETS_S3_REGION", "us-east-1"),
			Bucket:         os.Getenv("ASSETS_S3_BUCKET"),
			KeyPrefix:      getEnv("ASSETS_S3_KEY_PREFIX", "evidencias"),
			TimeoutSeconds: getEnvAsInt("ASSETS_TIMEOUT_SECONDS", 15),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", true),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
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

// Timeout returns the SMTP call deadline.
func (m MailConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// Timeout returns the asset upload deadline.
func (a AssetsConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Window returns the submission throttle window.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
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
