package amqp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger receives printf-style messages from publishers and consumers.
type Logger interface {
	Error(string, ...any)
	Info(string, ...any)
}

type EmptyLogger struct{}

func (d EmptyLogger) Error(msg string, args ...any) {}
func (d EmptyLogger) Info(msg string, args ...any)  {}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger adapts l to Logger.
func NewZapLogger(l *zap.Logger) Logger {
	return zapLogger{sugar: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (z zapLogger) Error(msg string, args ...any) {
	z.sugar.Errorf(msg, args...)
}

func (z zapLogger) Info(msg string, args ...any) {
	z.sugar.Infof(msg, args...)
}

type (
	LogConfig struct {
		Level       string         `json:"level" mapstructure:"level" yaml:"level"`
		Format      string         `json:"format" mapstructure:"format" yaml:"format"`
		Outputs     []string       `json:"outputs" mapstructure:"outputs" yaml:"outputs"`
		Rotation    RotationConfig `json:"rotation" mapstructure:"rotation" yaml:"rotation"`
		Development bool           `json:"development" mapstructure:"development" yaml:"development"`
	}

	// RotationConfig applies to file outputs only.
	RotationConfig struct {
		Enable     bool `json:"enable" mapstructure:"enable" yaml:"enable"`
		MaxSizeMB  int  `json:"max_size_mb" mapstructure:"max_size_mb" yaml:"max_size_mb"`
		MaxBackups int  `json:"max_backups" mapstructure:"max_backups" yaml:"max_backups"`
		MaxAgeDays int  `json:"max_age_days" mapstructure:"max_age_days" yaml:"max_age_days"`
		Compress   bool `json:"compress" mapstructure:"compress" yaml:"compress"`
	}
)

var DefaultLogConfig = LogConfig{
	Level:   "info",
	Format:  "console",
	Outputs: []string{"stderr"},
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zap.DebugLevel, nil
	case "", "info":
		return zap.InfoLevel, nil
	case "warn", "warning":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	default:
		return zap.InfoLevel, fmt.Errorf("invalid log level %q", level)
	}
}

// SetupLogger builds a zap logger writing to every configured output. The
// caller should defer logger.Sync().
func SetupLogger(c LogConfig) (*zap.Logger, error) {
	lvl, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	level := zap.NewAtomicLevelAt(lvl)

	encCfg := zap.NewProductionEncoderConfig()
	if c.Development {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(c.Format) {
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	case "", "console":
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("invalid log format %q", c.Format)
	}

	outputs := c.Outputs
	if len(outputs) == 0 {
		outputs = DefaultLogConfig.Outputs
	}

	cores := make([]zapcore.Core, 0, len(outputs))
	for _, out := range outputs {
		ws, err := writeSyncer(out, c.Rotation)
		if err != nil {
			return nil, err
		}

		cores = append(cores, zapcore.NewCore(encoder, ws, level))
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)}
	if c.Development {
		opts = append(opts, zap.Development())
	}

	return zap.New(zapcore.NewTee(cores...), opts...), nil
}

func writeSyncer(out string, rotation RotationConfig) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(out) {
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	if rotation.Enable {
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   out,
			MaxSize:    max(rotation.MaxSizeMB, 10),
			MaxBackups: max(rotation.MaxBackups, 1),
			MaxAge:     max(rotation.MaxAgeDays, 7),
			Compress:   rotation.Compress,
		}), nil
	}

	f, err := os.OpenFile(out, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	return zapcore.AddSync(f), nil
}
