package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "STEPDIALOG_LOG_LEVEL"

// Initialize creates a new logger with the specified level writing to output.
// If level is empty, it checks STEPDIALOG_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
// An empty output means stderr; anything else is a file path.
func Initialize(level string, output string) error {
	// If no level provided, check environment variable
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	// If still no level, use silent mode (nop logger)
	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	zapLevel, err := ParseLevel(level)
	if err != nil {
		return err
	}

	if output == "" {
		output = "stderr"
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	// Colors only make sense on a terminal
	if output == "stderr" || output == "stdout" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// ParseLevel converts a level name into a zap level.
// Unknown names are rejected so config mistakes surface early.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", level)
	}
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		// This ensures no unexpected log output in CLI commands
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogTransition logs a step change of a dialog
func LogTransition(dialogID string, event string, from, to fmt.Stringer) {
	Debug("Dialog transition",
		zap.String("dialog_id", dialogID),
		zap.String("event", event),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)
}

// LogValidation logs the outcome of a step validation
func LogValidation(dialogID string, step fmt.Stringer, failed []string) {
	if len(failed) == 0 {
		Debug("Step validation passed",
			zap.String("dialog_id", dialogID),
			zap.Stringer("step", step),
		)
		return
	}
	Info("Step validation failed",
		zap.String("dialog_id", dialogID),
		zap.Stringer("step", step),
		zap.Strings("fields", failed),
	)
}

// LogSubmit logs a submission lifecycle event
// (started, succeeded, failed, canceled, discarded)
func LogSubmit(dialogID string, submissionID string, event string, fields ...zap.Field) {
	all := append([]zap.Field{
		zap.String("dialog_id", dialogID),
		zap.String("submission_id", submissionID),
		zap.String("event", event),
	}, fields...)

	if event == "failed" {
		Warn("Submission event", all...)
		return
	}
	Info("Submission event", all...)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
