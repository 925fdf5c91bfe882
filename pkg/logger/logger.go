// Package logger provides context-aware structured logging on top of zap.
package logger

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

const (
	// DevelopmentEnvironment selects a human readable console logger at debug level.
	DevelopmentEnvironment = "development"

	// ProductionEnvironment selects a JSON logger at info level.
	ProductionEnvironment = "production"
)

// defaultLogger is used when no logger is found in context.
var defaultLogger *zap.Logger //nolint: gochecknoglobals

// Setup initializes the default logger for the environment. A non-empty level
// ("debug", "info", "warn", "error") overrides the environment's default level.
func Setup(environment, level string) error {
	cfg := zap.NewDevelopmentConfig()
	if environment == ProductionEnvironment {
		cfg = zap.NewProductionConfig()
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("could not build logger: %w", err)
	}
	defaultLogger = l

	return nil
}

type key struct{}

// Get retrieves the logger from ctx, falling back to the default logger and
// then to a no-op logger when Setup was never called.
func Get(ctx context.Context) *zap.Logger {
	if l, _ := ctx.Value(key{}).(*zap.Logger); l != nil {
		return l
	}
	if defaultLogger != nil {
		return defaultLogger
	}

	return zap.NewNop()
}

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, key{}, l)
}

// WithFields returns a context whose logger includes fields.
func WithFields(ctx context.Context, fields ...zapcore.Field) context.Context {
	return WithLogger(ctx, Get(ctx).With(fields...))
}

// Slog returns a slog.Logger writing to the zap core of the context logger.
func Slog(ctx context.Context) *slog.Logger {
	return slog.New(zapslog.NewHandler(Get(ctx).Core()))
}

// IsDebug checks if the logger in the context is configured at debug level.
func IsDebug(ctx context.Context) bool {
	return Get(ctx).Level() == zap.DebugLevel
}

// Debug logs a message at debug level with the given fields.
func Debug(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Debug(msg, fields...)
}

// Info logs a message at info level with the given fields.
func Info(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Info(msg, fields...)
}

// Warn logs a message at warn level with the given fields.
func Warn(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Warn(msg, fields...)
}

// Error logs a message at error level with the given fields.
func Error(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Error(msg, fields...)
}

// Fatal logs a message at fatal level with the given fields and exits.
func Fatal(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Fatal(msg, fields...)
}
