package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.HTTP.Addr)
	assert.Equal(t, 64, cfg.Realtime.SendBuffer)
	assert.False(t, cfg.Realtime.StrictTracking)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realtime.yaml")
	content := `
http:
  addr: ":9000"
  allowed_origins:
    - https://admin.veyara.app
database:
  url: postgres://db/veyara
  migrate: true
kafka:
  brokers: [kafka-1:9092, kafka-2:9092]
realtime:
  strict_tracking: true
  send_buffer: 16
  write_timeout: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, []string{"https://admin.veyara.app"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "postgres://db/veyara", cfg.Database.URL)
	assert.True(t, cfg.Database.Migrate)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Realtime.StrictTracking)
	assert.Equal(t, 16, cfg.Realtime.SendBuffer)
	assert.Equal(t, 3*time.Second, cfg.Realtime.WriteTimeout)
	// Untouched keys keep their defaults
	assert.Equal(t, "veyara-notifications", cfg.Kafka.NotificationTopic)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realtime.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  addr: \":9000\"\n"), 0o600))

	t.Setenv("HTTP_ADDR", ":7000")
	t.Setenv("KAFKA_BROKERS", "a:1, b:2")
	t.Setenv("STRICT_TRACKING", "true")
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTP.Addr)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Realtime.StrictTracking)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidBool(t *testing.T) {
	t.Setenv("STRICT_TRACKING", "maybe")

	_, err := Load("")

	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate_JWTSecret(t *testing.T) {
	cfg := Default()
	cfg.Auth.JWTSecret = "short"
	assert.ErrorIs(t, cfg.Validate(), ErrWeakJWTSecret)

	cfg.Auth.JWTSecret = strings.Repeat("x", 32)
	assert.NoError(t, cfg.Validate())
}
