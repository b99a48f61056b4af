package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MemoryStoreDefaults(t *testing.T) {
	t.Setenv("STORE_TYPE", StoreTypeMemory)
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	for _, key := range []string{"APP_PORT", "FRONTEND_URL", "CORS_ALLOWED_ORIGINS", "INVITATION_DEFAULT_PAGE_SIZE", "SMTP_MAX_RETRIES"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreTypeMemory, cfg.Store.Type)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 100, cfg.Invitation.DefaultPageSize)
	assert.Equal(t, 3, cfg.SMTP.MaxRetries)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.AllowedOrigins)
}

func TestLoad_PostgresRequiresPassword(t *testing.T) {
	t.Setenv("STORE_TYPE", StoreTypePostgres)
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_PASSWORD")
}

func TestLoad_InvalidPageSize(t *testing.T) {
	t.Setenv("STORE_TYPE", StoreTypeMemory)
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("INVITATION_DEFAULT_PAGE_SIZE", "abc")

	_, err := Load()
	assert.ErrorContains(t, err, "INVITATION_DEFAULT_PAGE_SIZE")
}

func TestValidate_UnknownStoreType(t *testing.T) {
	cfg := &Config{
		JWT:        JWTConfig{Secret: "s"},
		Store:      StoreConfig{Type: "redis"},
		Invitation: InvitationConfig{DefaultPageSize: 10},
		SMTP:       SMTPConfig{MaxRetries: 1},
	}
	assert.ErrorContains(t, cfg.Validate(), "unsupported STORE_TYPE")
}

func TestGetEnvSlice_TrimsParts(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, getEnvSlice("CORS_ALLOWED_ORIGINS"))
}

func TestSlogLevel(t *testing.T) {
	cfg := &Config{App: AppConfig{LogLevel: "debug"}}
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	cfg.App.LogLevel = "nonsense"
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "disable",
	}}
	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=disable", cfg.DatabaseURL())
}
