package logger

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger represents a structured logger
type Logger struct {
	logger zerolog.Logger
}

// Fields represents log fields
type Fields map[string]interface{}

var (
	// Default is the default logger instance
	Default *Logger

	initOnce sync.Once
)

// Init initializes the logger with the given configuration
func Init() {
	initOnce.Do(func() {
		level := getLogLevel()

		zerolog.TimeFieldFormat = time.RFC3339
		zerolog.SetGlobalLevel(level)

		// Console writer keeps development output readable
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}

		Default = &Logger{logger: zerolog.New(output).With().Timestamp().Logger()}

		Default.Info().
			Str("level", level.String()).
			Msg("Logger initialized")
	})
}

// getLogLevel returns the log level from environment variable
func getLogLevel() zerolog.Level {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		if os.Getenv("PRODUCTWORKER_ENVIRONMENT") == "production" {
			return zerolog.InfoLevel
		}
		return zerolog.DebugLevel
	}

	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// WithFields creates a new logger with fields
func (l *Logger) WithFields(fields Fields) *Logger {
	newLogger := l.logger.With()
	for k, v := range fields {
		newLogger = newLogger.Interface(k, v)
	}
	return &Logger{logger: newLogger.Logger()}
}

// WithField creates a new logger with a single field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

// Debug returns a debug event
func (l *Logger) Debug() *zerolog.Event {
	return l.logger.Debug()
}

// Info returns an info event
func (l *Logger) Info() *zerolog.Event {
	return l.logger.Info()
}

// Warn returns a warn event
func (l *Logger) Warn() *zerolog.Event {
	return l.logger.Warn()
}

// Error returns an error event
func (l *Logger) Error() *zerolog.Event {
	return l.logger.Error()
}

// Fatal returns a fatal event
func (l *Logger) Fatal() *zerolog.Event {
	return l.logger.Fatal()
}

// Debug logs a debug message
func Debug(format string, v ...interface{}) {
	get().Debug().Msgf(format, v...)
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	get().Info().Msgf(format, v...)
}

// Warn logs a warning message
func Warn(format string, v ...interface{}) {
	get().Warn().Msgf(format, v...)
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	get().Error().Msgf(format, v...)
}

// ForExtractor creates a logger for a specific site extractor
func ForExtractor(site string) *Logger {
	return get().WithField("extractor", site)
}

// ForWorker creates a logger for the refresh worker
func ForWorker() *Logger {
	return get().WithField("component", "worker")
}

// ForPublisher creates a logger for the publisher
func ForPublisher() *Logger {
	return get().WithField("component", "publisher")
}

// ForCache creates a logger for the cache
func ForCache() *Logger {
	return get().WithField("component", "cache")
}

// ForReporter creates a logger for escalation reporting
func ForReporter() *Logger {
	return get().WithField("component", "escalation")
}

// LogError is a convenience method for logging errors with context
func LogError(component string, err error, format string, v ...interface{}) {
	get().Error().
		Str("component", component).
		Err(err).
		Msg(fmt.Sprintf(format, v...))
}

func get() *Logger {
	if Default == nil {
		Init()
	}
	return Default
}
