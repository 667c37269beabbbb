package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: "127.0.0.1"
  port: 9000
  env: "test"
database:
  url: "postgres://localhost/app_test"
jwt:
  secret: "yaml-secret"
  access_ttl_min: 5
verification:
  link_base_url: "https://app.test/verify"
`), 0o644))

	t.Setenv("DATABASE_URL", "")
	t.Setenv("CONFIG_PATH", path)

	LoadConfig()
	cfg := AppConfig

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/app_test", cfg.Database.DSN)
	assert.Equal(t, "yaml-secret", cfg.JWT.Secret)
	assert.Equal(t, 5, cfg.JWT.AccessTTLMin)
	assert.Equal(t, "https://app.test/verify", cfg.Verification.LinkBaseURL)

	// Omitted values fall back to defaults.
	assert.Equal(t, 7, cfg.JWT.RefreshTTLDay)
	assert.Equal(t, 15, cfg.Verification.CodeTTLMin)
	assert.Equal(t, 3, cfg.Email.RetryAttempts)
	assert.Equal(t, 500, cfg.Email.RetryDelayMs)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env-host/app")
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("SMTP_HOST", "mail.example.com")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("SMTP_FROM", "no-reply@example.com")
	t.Setenv("VERIFICATION_LINK_BASE_URL", "")

	LoadConfig()
	cfg := AppConfig

	assert.Equal(t, "postgres://env-host/app", cfg.Database.DSN)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "mail.example.com", cfg.Email.SMTPHost)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.Equal(t, "no-reply@example.com", cfg.Email.FromEmail)

	// Unset link base falls back to the default.
	assert.Equal(t, "http://localhost:4000/verify", cfg.Verification.LinkBaseURL)
}
