// Package logging provides structured logging for the application.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Interface is the logging surface the rest of the application depends on.
// Fields are alternating key/value pairs.
type Interface interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
	Fatal(msg string, fields ...any)
	With(fields ...any) Interface
}

// Logger implements Interface over zap.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New creates a console logger at the given level ("debug", "info", "warn",
// "error"); unknown levels fall back to info.
func New(level string) *Logger {
	lvl := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		lvl = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	// zap.Must avoids threading an error through every constructor; the
	// console config cannot fail outside of programmer error.
	return &Logger{sugar: zap.Must(cfg.Build(zap.AddCallerSkip(1))).Sugar()}
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (l *Logger) Debug(msg string, fields ...any) { l.sugar.Debugw(msg, fields...) }
func (l *Logger) Info(msg string, fields ...any)  { l.sugar.Infow(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...any)  { l.sugar.Warnw(msg, fields...) }
func (l *Logger) Error(msg string, fields ...any) { l.sugar.Errorw(msg, fields...) }
func (l *Logger) Fatal(msg string, fields ...any) { l.sugar.Fatalw(msg, fields...) }

// With returns a logger that attaches the fields to every entry.
func (l *Logger) With(fields ...any) Interface {
	return &Logger{sugar: l.sugar.With(fields...)}
}

// Sync flushes buffered entries. Call before process exit.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
