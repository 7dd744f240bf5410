// Package amqp holds the configuration and logging shared by the publisher
// and consumer packages.
package amqp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/nano-interactive/go-amqp-contracts/codec"
	"github.com/nano-interactive/go-amqp-contracts/connection"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the application level configuration of a bus endpoint.
type Config struct {
	Connection connection.Config `json:"connection" mapstructure:"connection" yaml:"connection"`
	Log        LogConfig         `json:"log" mapstructure:"log" yaml:"log"`
	// ContentType selects the codec bodies are written with.
	ContentType   string `json:"content_type" mapstructure:"content_type" yaml:"content_type"`
	Exchange      string `json:"exchange" mapstructure:"exchange" yaml:"exchange"`
	Queue         string `json:"queue" mapstructure:"queue" yaml:"queue"`
	FaultExchange string `json:"fault_exchange" mapstructure:"fault_exchange" yaml:"fault_exchange"`
	Workers       int    `json:"workers" mapstructure:"workers" yaml:"workers"`
	RetryCount    uint32 `json:"retry_count" mapstructure:"retry_count" yaml:"retry_count"`
}

func DefaultConfig() Config {
	return Config{
		Connection:  connection.DefaultConfig,
		Log:         DefaultLogConfig,
		ContentType: codec.ContentTypeJSON,
		Workers:     1,
		RetryCount:  3,
	}
}

// LoadConfig reads path (YAML) when it is not empty and applies GOAMQP_*
// environment overrides, e.g. GOAMQP_CONNECTION_HOST.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("GOAMQP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// setDefaults seeds every key so env-only configs are picked up by
// AutomaticEnv.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("connection.host", cfg.Connection.Host)
	v.SetDefault("connection.user", cfg.Connection.User)
	v.SetDefault("connection.password", cfg.Connection.Password)
	v.SetDefault("connection.vhost", cfg.Connection.Vhost)
	v.SetDefault("connection.connection_name", cfg.Connection.ConnectionName)
	v.SetDefault("connection.port", cfg.Connection.Port)
	v.SetDefault("connection.reconnect_retry", cfg.Connection.ReconnectRetry)
	v.SetDefault("connection.channels", cfg.Connection.Channels)
	v.SetDefault("connection.frame_size", cfg.Connection.FrameSize)
	v.SetDefault("connection.reconnect_interval", cfg.Connection.ReconnectInterval)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)

	v.SetDefault("content_type", cfg.ContentType)
	v.SetDefault("exchange", cfg.Exchange)
	v.SetDefault("queue", cfg.Queue)
	v.SetDefault("fault_exchange", cfg.FaultExchange)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("retry_count", cfg.RetryCount)
}

func (c *Config) Validate() error {
	if err := c.Connection.Validate(); err != nil {
		return err
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if codec.NewRegistry().Get(c.ContentType) == nil {
		return fmt.Errorf("%w: unsupported content_type %q", ErrInvalidConfig, c.ContentType)
	}

	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig)
	}

	return nil
}

// Codec returns the codec selected by ContentType.
func (c *Config) Codec() codec.Codec {
	return codec.NewRegistry().Get(c.ContentType)
}
