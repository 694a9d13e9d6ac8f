package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"messenger/internal/domain"
)

type Config struct {
	Environment string `validate:"oneof=development production test"`
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Members     MembersConfig
	Chat        ChatConfig
	RateLimit   RateLimitConfig
	Log         LogConfig
}

type ServerConfig struct {
	Port         int `validate:"min=1,max=65535"`
	Host         string
	ReadTimeout  time.Duration `validate:"gt=0"`
	WriteTimeout time.Duration `validate:"gt=0"`
	IdleTimeout  time.Duration `validate:"gt=0"`
}

// DatabaseConfig: пустой DSN - режим без БД, все хранится в памяти процесса
type DatabaseConfig struct {
	DSN             string
	MaxConnections  int `validate:"min=1"`
	MinConnections  int `validate:"min=0"`
	MaxIdleTime     time.Duration
	ConnMaxLifetime time.Duration
}

// RedisConfig: пустой Addr отключает rate limit, denylist токенов хранится в памяти
type RedisConfig struct {
	Addr     string
	Password string
	DB       int `validate:"min=0"`
}

type JWTConfig struct {
	AccessSecret string        `validate:"required,min=16"`
	AccessTTL    time.Duration `validate:"gt=0"`
	Issuer       string        `validate:"required"`
}

// MembersConfig: участники из AdminIDs получают роль admin при регистрации
type MembersConfig struct {
	AdminIDs []string
}

type ChatConfig struct {
	DefaultPageSize  int `validate:"min=1"`
	MaxPageSize      int `validate:"min=0"`
	MaxContentLength int `validate:"min=1"`
}

type RateLimitConfig struct {
	Limit  int           `validate:"min=1"`
	Window time.Duration `validate:"gt=0"`
}

type LogConfig struct {
	Level string `validate:"oneof=debug info warn warning error"`
	File  string
}

func Load() (*Config, error) {
	// Загрузка .env файла (если существует)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnvAsInt("SERVER_PORT", 8080),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", ""),
			MaxConnections:  getEnvAsInt("DATABASE_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DATABASE_MIN_CONNECTIONS", 0),
			MaxIdleTime:     getEnvAsDuration("DATABASE_MAX_IDLE_TIME", 5*time.Minute),
			ConnMaxLifetime: getEnvAsDuration("DATABASE_CONN_MAX_LIFETIME", 1*time.Hour),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			AccessSecret: getEnv("JWT_ACCESS_SECRET", "your-access-secret-key-change-in-production"),
			AccessTTL:    getEnvAsDuration("JWT_ACCESS_TTL", 1*time.Hour),
			Issuer:       getEnv("JWT_ISSUER", "messenger"),
		},
		Members: MembersConfig{
			AdminIDs: getEnvAsSlice("ADMIN_MEMBER_IDS"),
		},
		Chat: ChatConfig{
			DefaultPageSize:  getEnvAsInt("CHAT_DEFAULT_PAGE_SIZE", domain.DefaultPageSize),
			MaxPageSize:      getEnvAsInt("CHAT_MAX_PAGE_SIZE", domain.DefaultMaxPageSize),
			MaxContentLength: getEnvAsInt("CHAT_MAX_CONTENT_LENGTH", domain.DefaultMaxContentLen),
		},
		RateLimit: RateLimitConfig{
			Limit:  getEnvAsInt("RATE_LIMIT_SEND_PER_WINDOW", 60),
			Window: getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

var validate = validator.New()

func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Chat.MaxPageSize > 0 && c.Chat.DefaultPageSize > c.Chat.MaxPageSize {
		return fmt.Errorf("CHAT_DEFAULT_PAGE_SIZE (%d) exceeds CHAT_MAX_PAGE_SIZE (%d)", c.Chat.DefaultPageSize, c.Chat.MaxPageSize)
	}
	if c.Environment == "production" && c.Database.DSN == "" {
		return fmt.Errorf("database DSN must be set in production")
	}
	return nil
}

func (c *Config) MemoryMode() bool {
	return c.Database.DSN == ""
}

func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string) []string {
	parts := strings.Split(getEnv(key, ""), ",")
	return lo.Compact(lo.Map(parts, func(p string, _ int) string {
		return strings.TrimSpace(p)
	}))
}
