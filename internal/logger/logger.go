package logger

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	userIDKey    ctxKey = "user_id"
)

var (
	defaultLogger *zap.Logger
	mu            sync.RWMutex
)

// Init initializes the global logger with the specified level and format
func Init(level, format string) {
	var logLevel zapcore.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		logLevel = zapcore.DebugLevel
	case "WARN":
		logLevel = zapcore.WarnLevel
	case "ERROR":
		logLevel = zapcore.ErrorLevel
	default:
		logLevel = zapcore.InfoLevel
	}

	var config zap.Config
	if format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.Level = zap.NewAtomicLevelAt(logLevel)
	config.OutputPaths = []string{"stdout"}

	l, err := config.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}

	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	zap.ReplaceGlobals(l)
}

// Get returns the default logger instance
func Get() *zap.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l == nil {
		Init("INFO", "json")
		return Get()
	}
	return l
}

// ContextWithRequestID stores the request id for WithContext.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ContextWithUserID stores the caller's user id for WithContext.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// WithContext returns a logger with context-specific fields
func WithContext(ctx context.Context) *zap.Logger {
	l := Get()

	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		l = l.With(zap.String("request_id", reqID))
	}

	if userID, ok := ctx.Value(userIDKey).(int64); ok {
		l = l.With(zap.Int64("user_id", userID))
	}

	return l
}

// NewRequestID generates a new UUID for request tracking
func NewRequestID() string {
	return uuid.New().String()
}

// Sync flushes buffered entries; call before exit.
func Sync() {
	_ = Get().Sync()
}

// Fatal logs an error message and exits the application
func Fatal(msg string, fields ...zap.Field) {
	Get().Error(msg, fields...)
	Sync()
	os.Exit(1)
}
