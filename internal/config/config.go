package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreTypePostgres = "postgres"
	StoreTypeMemory   = "memory"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	SMTP       SMTPConfig
	Invitation InvitationConfig
	Store      StoreConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	FrontendURL    string
	AllowedOrigins []string
}

// SMTPConfig holds outbound mail configuration. An empty Host disables sending.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	FromName   string
	MaxRetries int
}

// InvitationConfig holds invitation listing defaults
type InvitationConfig struct {
	DefaultPageSize int
}

type StoreConfig struct {
	Type string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "tenant_invitations"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}
	if len(config.App.AllowedOrigins) == 0 {
		config.App.AllowedOrigins = []string{config.App.FrontendURL}
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	smtpRetries, err := strconv.Atoi(getEnv("SMTP_MAX_RETRIES", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_MAX_RETRIES: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:       getEnv("SMTP_HOST", ""),
		Port:       smtpPort,
		Username:   getEnv("SMTP_USERNAME", ""),
		Password:   getEnv("SMTP_PASSWORD", ""),
		From:       getEnv("SMTP_FROM", "no-reply@localhost"),
		FromName:   getEnv("SMTP_FROM_NAME", "Tenant Invitations"),
		MaxRetries: smtpRetries,
	}

	// Invitation configuration
	pageSize, err := strconv.Atoi(getEnv("INVITATION_DEFAULT_PAGE_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid INVITATION_DEFAULT_PAGE_SIZE: %w", err)
	}

	config.Invitation = InvitationConfig{
		DefaultPageSize: pageSize,
	}

	config.Store = StoreConfig{
		Type: getEnv("STORE_TYPE", StoreTypePostgres),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Type {
	case StoreTypePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreTypeMemory:
	default:
		return fmt.Errorf("unsupported STORE_TYPE: %q", c.Store.Type)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Invitation.DefaultPageSize <= 0 {
		return fmt.Errorf("INVITATION_DEFAULT_PAGE_SIZE must be positive")
	}
	if c.SMTP.MaxRetries <= 0 {
		return fmt.Errorf("SMTP_MAX_RETRIES must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
