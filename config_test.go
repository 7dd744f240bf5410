package amqp

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nano-interactive/go-amqp-contracts/codec"
	"github.com/nano-interactive/go-amqp-contracts/connection"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	cfg, err := LoadConfig("")

	assert.NoError(err)
	assert.Equal(connection.DefaultConfig, cfg.Connection)
	assert.Equal(codec.ContentTypeJSON, cfg.ContentType)
	assert.Equal(1, cfg.Workers)
	assert.Equal(codec.ContentTypeJSON, cfg.Codec().ContentType())
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	// Arrange
	path := writeConfig(t, `
connection:
  host: rabbit.internal
  port: 5673
  reconnect_interval: 2s
log:
  level: debug
  format: json
content_type: application/cbor
exchange: orders
queue: orders.placed
fault_exchange: orders_error
workers: 4
`)

	// Act
	cfg, err := LoadConfig(path)

	// Assert
	assert.NoError(err)
	assert.Equal("rabbit.internal", cfg.Connection.Host)
	assert.Equal(5673, cfg.Connection.Port)
	assert.Equal(2*time.Second, cfg.Connection.ReconnectInterval)
	assert.Equal("guest", cfg.Connection.User)
	assert.Equal("debug", cfg.Log.Level)
	assert.Equal("orders", cfg.Exchange)
	assert.Equal("orders.placed", cfg.Queue)
	assert.Equal("orders_error", cfg.FaultExchange)
	assert.Equal(4, cfg.Workers)
	assert.Equal(codec.ContentTypeCBOR, cfg.Codec().ContentType())
}

func TestLoadConfigEnv(t *testing.T) {
	assert := require.New(t)

	t.Setenv("GOAMQP_CONNECTION_HOST", "from-env")
	t.Setenv("GOAMQP_EXCHANGE", "events")

	cfg, err := LoadConfig("")

	assert.NoError(err)
	assert.Equal("from-env", cfg.Connection.Host)
	assert.Equal("events", cfg.Exchange)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "content type", content: "content_type: text/plain\n"},
		{name: "log level", content: "log:\n  level: loud\n"},
		{name: "port", content: "connection:\n  port: 0\n"},
		{name: "workers", content: "workers: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
