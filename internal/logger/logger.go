// Package logger configures the application's logging.
//
// It uses zerolog for structured logging: JSON output for log
// pipelines, a console writer for local development, and a
// dedicated logger wired into the pgx driver so SQL statements
// show up in local logs.
package logger

import (
	"os"
	"time"

	"github.com/deppfellow/items-api/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// New builds the application's main structured logger from config.
//
// Behavior:
//   - Level comes from logging.level (defaults handled by config).
//   - "console" format writes human-friendly lines to stderr; "json" writes
//     machine-readable entries.
//   - Every entry carries a timestamp and the environment name.
func New(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Logging.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().
		Timestamp().
		Str("env", cfg.Primary.Env).
		Logger()
}

// NewPgxLogger creates the logger handed to the pgx tracelog adapter.
//
// SQL logging is chatty, so the pgx logger is tagged with a component field
// to make filtering easy and inherits the global level.
func NewPgxLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().
		Timestamp().
		Str("component", "pgx").
		Logger()
}

// GetPgxTraceLogLevel maps a zerolog level onto the pgx tracelog level.
//
// pgx logs every statement at its "info" level; we only want that noise when
// the application itself runs at debug/trace verbosity.
func GetPgxTraceLogLevel(level zerolog.Level) tracelog.LogLevel {
	switch level {
	case zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	case zerolog.ErrorLevel:
		return tracelog.LogLevelError
	default:
		return tracelog.LogLevelNone
	}
}
