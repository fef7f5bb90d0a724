// Package logger provides the structured logger used across the service.
package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the severity level of a log message
type Level string

const (
	// DebugLevel is used for development messages
	DebugLevel Level = "DEBUG"
	// InfoLevel is used for general operational information
	InfoLevel Level = "INFO"
	// WarnLevel is used for warnings and potential issues
	WarnLevel Level = "WARN"
	// ErrorLevel is used for errors and unexpected events
	ErrorLevel Level = "ERROR"
	// FatalLevel is used for critical errors that require termination
	FatalLevel Level = "FATAL"
)

// ParseLevel converts a case-insensitive level name into a Level
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case DebugLevel:
		return DebugLevel, nil
	case InfoLevel:
		return InfoLevel, nil
	case WarnLevel, "WARNING":
		return WarnLevel, nil
	case ErrorLevel:
		return ErrorLevel, nil
	case FatalLevel:
		return FatalLevel, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger defines the interface for the application logger
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Fatal(msg string, fields map[string]interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// ZapLogger implements Logger on top of a zap.Logger
type ZapLogger struct {
	base *zap.Logger
}

// NewZapLogger wraps an existing zap logger
func NewZapLogger(base *zap.Logger) *ZapLogger {
	if base == nil {
		base = zap.NewNop()
	}
	return &ZapLogger{base: base}
}

// NewJSONLogger creates a logger that writes JSON lines to output
func NewJSONLogger(output io.Writer, level Level) *ZapLogger {
	if output == nil {
		output = os.Stdout
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(output),
		level.zapLevel(),
	)

	return NewZapLogger(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)))
}

// ErrorLog adapts the logger for APIs that take a standard library logger,
// such as http.Server.ErrorLog. Lines are written at error level.
func (l *ZapLogger) ErrorLog() *stdlog.Logger {
	std, err := zap.NewStdLogAt(l.base, zapcore.ErrorLevel)
	if err != nil {
		return zap.NewStdLog(l.base)
	}
	return std
}

// Sync flushes any buffered log entries
func (l *ZapLogger) Sync() error {
	return l.base.Sync()
}

// WithField returns a new logger with the field added to the log context
func (l *ZapLogger) WithField(key string, value interface{}) Logger {
	return &ZapLogger{base: l.base.With(zap.Any(key, value))}
}

// WithFields returns a new logger with the fields added to the log context
func (l *ZapLogger) WithFields(fields map[string]interface{}) Logger {
	if len(fields) == 0 {
		return l
	}
	return &ZapLogger{base: l.base.With(toZapFields(fields)...)}
}

// Debug logs a message at debug level
func (l *ZapLogger) Debug(msg string, fields map[string]interface{}) {
	l.base.Debug(msg, toZapFields(fields)...)
}

// Info logs a message at info level
func (l *ZapLogger) Info(msg string, fields map[string]interface{}) {
	l.base.Info(msg, toZapFields(fields)...)
}

// Warn logs a message at warn level
func (l *ZapLogger) Warn(msg string, fields map[string]interface{}) {
	l.base.Warn(msg, toZapFields(fields)...)
}

// Error logs a message at error level
func (l *ZapLogger) Error(msg string, fields map[string]interface{}) {
	l.base.Error(msg, toZapFields(fields)...)
}

// Fatal logs a message at fatal level and then terminates the program
func (l *ZapLogger) Fatal(msg string, fields map[string]interface{}) {
	l.base.Fatal(msg, toZapFields(fields)...)
}

// toZapFields converts a field map into zap fields ordered by key
func toZapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	zapFields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		if err, ok := fields[k].(error); ok {
			zapFields = append(zapFields, zap.NamedError(k, err))
			continue
		}
		zapFields = append(zapFields, zap.Any(k, fields[k]))
	}
	return zapFields
}

var defaultLogger Logger = NewJSONLogger(os.Stdout, InfoLevel)

// GetDefaultLogger returns the default logger
func GetDefaultLogger() Logger {
	return defaultLogger
}

// SetDefaultLogger replaces the default logger. A nil logger is ignored.
func SetDefaultLogger(logger Logger) {
	if logger != nil {
		defaultLogger = logger
	}
}

// Debug Global logger functions
func Debug(msg string, fields map[string]interface{}) {
	defaultLogger.Debug(msg, fields)
}

func Info(msg string, fields map[string]interface{}) {
	defaultLogger.Info(msg, fields)
}

func Warn(msg string, fields map[string]interface{}) {
	defaultLogger.Warn(msg, fields)
}

func Error(msg string, fields map[string]interface{}) {
	defaultLogger.Error(msg, fields)
}

func Fatal(msg string, fields map[string]interface{}) {
	defaultLogger.Fatal(msg, fields)
}
