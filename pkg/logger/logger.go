package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// LevelEnv is the environment variable that overrides the configured log level.
const LevelEnv = "MCP_DOCKER_LOG_LEVEL"

// Logger is a wrapper around charmbracelet/log.Logger
type Logger struct {
	*log.Logger
}

var (
	instance *Logger
	once     sync.Once
)

// GetLogger returns the singleton logger instance.
// It always writes to stderr: stdout carries the stdio JSON-RPC stream.
func GetLogger() *Logger {
	once.Do(func() {
		instance = &Logger{
			Logger: log.NewWithOptions(os.Stderr, log.Options{
				Level:           log.InfoLevel,
				ReportTimestamp: true,
				TimeFormat:      "15:04:05",
				Prefix:          "mcp-docker",
			}),
		}
		// Packages that log through the global charmbracelet logger share the same sink
		log.SetDefault(instance.Logger)
	})
	return instance
}

// ParseLevel maps a textual level to a log.Level, defaulting to info
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// SetLogLevel sets the log level from a string
func (l *Logger) SetLogLevel(level string) {
	l.SetLevel(ParseLevel(level))
	l.Debug("Log level set", "level", level)
}

// ConfigureFromEnv applies MCP_DOCKER_LOG_LEVEL when present.
// It reports whether the environment overrode the level.
func (l *Logger) ConfigureFromEnv() bool {
	if lvl := os.Getenv(LevelEnv); lvl != "" {
		l.SetLogLevel(lvl)
		return true
	}
	return false
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	GetLogger().Debug(msg, keyvals...)
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	GetLogger().Info(msg, keyvals...)
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	GetLogger().Warn(msg, keyvals...)
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	GetLogger().Error(msg, keyvals...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, keyvals ...interface{}) {
	GetLogger().Fatal(msg, keyvals...)
}
