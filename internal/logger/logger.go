package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger wraps zerolog.Logger with additional functionality
type Logger struct {
	zerolog.Logger
	level  zerolog.Level
	output io.Writer
}

// Config represents logger configuration
type Config struct {
	// Log level (debug, info, warn, error)
	Level string `toml:"level"`

	// Output destination (stdout, stderr, or file path)
	Output string `toml:"output"`

	// Enable colored output (auto-detected for terminals)
	Color bool `toml:"color"`

	// Enable timestamp in logs
	Timestamp bool `toml:"timestamp"`

	// Enable caller information (file:line)
	Caller bool `toml:"caller"`
}

// DefaultConfig returns default logger configuration.
// The level defaults to "error" so diagnostics never pollute the report
// output on stdout.
func DefaultConfig() *Config {
	return &Config{
		Level:     "error",
		Output:    "stderr",
		Color:     true,
		Timestamp: true,
		Caller:    false,
	}
}

var globalLogger *Logger

// Init initializes the global logger with the provided configuration
func Init(config *Config) error {
	if config == nil {
		config = DefaultConfig()
	}

	// Set error stack marshaling
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	// Parse log level
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %s: %w", config.Level, err)
	}

	// Configure output
	var output io.Writer
	switch config.Output {
	case "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		// Assume it's a file path
		if err := os.MkdirAll(filepath.Dir(config.Output), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	// Configure console writer for terminal output
	if (config.Output == "stdout" || config.Output == "stderr") && config.Color {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
			NoColor:    !config.Color,
		}
		output = consoleWriter
	}

	// Create logger
	logger := zerolog.New(output).Level(level)

	if config.Timestamp {
		logger = logger.With().Timestamp().Logger()
	}

	if config.Caller {
		logger = logger.With().Caller().Logger()
	}

	globalLogger = &Logger{
		Logger: logger,
		level:  level,
		output: output,
	}

	// Set global logger
	log.Logger = globalLogger.Logger

	return nil
}

// GetLogger returns the global logger instance
func GetLogger() *Logger {
	if globalLogger == nil {
		// Initialize with defaults if not already done
		_ = Init(DefaultConfig())
	}
	return globalLogger
}

// WithField adds a field to the logger context
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{
		Logger: l.Logger.With().Interface(key, value).Logger(),
		level:  l.level,
		output: l.output,
	}
}

// WithFields adds multiple fields to the logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.Logger.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, value)
	}
	return &Logger{
		Logger: ctx.Logger(),
		level:  l.level,
		output: l.output,
	}
}

// WithError adds an error field to the logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With().Err(err).Logger(),
		level:  l.level,
		output: l.output,
	}
}

// WithComponent adds a component field for structured logging
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// WithRunID adds the per-invocation run ID field
func (l *Logger) WithRunID(runID string) *Logger {
	return l.WithField("run_id", runID)
}

// Classifier creates a logger with argument classification context
func (l *Logger) Classifier() *Logger {
	return l.WithComponent("classifier")
}

// Storage creates a logger with event store context
func (l *Logger) Storage() *Logger {
	return l.WithComponent("storage")
}

// Render creates a logger with report rendering context
func (l *Logger) Render() *Logger {
	return l.WithComponent("render")
}

// Stats creates a logger with statistics context
func (l *Logger) Stats() *Logger {
	return l.WithComponent("stats")
}

// Config creates a logger with configuration context
func (l *Logger) Config() *Logger {
	return l.WithComponent("config")
}

// Performance logs performance metrics
func (l *Logger) Performance(operation string, duration time.Duration, fields map[string]interface{}) {
	evt := l.Info().
		Str("perf_operation", operation).
		Dur("duration", duration)

	for key, value := range fields {
		evt = evt.Interface(key, value)
	}
	evt.Msg("performance metric")
}

// Global convenience functions
func Debug() *zerolog.Event {
	return GetLogger().Debug()
}

func Info() *zerolog.Event {
	return GetLogger().Info()
}

func Warn() *zerolog.Event {
	return GetLogger().Warn()
}

func Error() *zerolog.Event {
	return GetLogger().Error()
}

func Fatal() *zerolog.Event {
	return GetLogger().Fatal()
}

func WithField(key string, value interface{}) *Logger {
	return GetLogger().WithField(key, value)
}

func WithError(err error) *Logger {
	return GetLogger().WithError(err)
}

func WithComponent(component string) *Logger {
	return GetLogger().WithComponent(component)
}
