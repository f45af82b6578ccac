package logger_test

import (
	"testing"

	"github.com/deppfellow/items-api/internal/config"
	"github.com/deppfellow/items-api/internal/logger"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewRespectsConfiguredLevel(t *testing.T) {
	cfg := &config.Config{
		Primary: config.Primary{Env: "production"},
		Logging: config.LoggingConfig{Level: "warn", Format: "json"},
	}

	log := logger.New(cfg)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}

func TestNewFallsBackToInfoOnBadLevel(t *testing.T) {
	cfg := &config.Config{
		Primary: config.Primary{Env: "local"},
		Logging: config.LoggingConfig{Level: "shouty", Format: "console"},
	}

	log := logger.New(cfg)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	tests := []struct {
		in   zerolog.Level
		want tracelog.LogLevel
	}{
		{zerolog.TraceLevel, tracelog.LogLevelTrace},
		{zerolog.DebugLevel, tracelog.LogLevelDebug},
		{zerolog.InfoLevel, tracelog.LogLevelInfo},
		{zerolog.WarnLevel, tracelog.LogLevelWarn},
		{zerolog.ErrorLevel, tracelog.LogLevelError},
		{zerolog.Disabled, tracelog.LogLevelNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, logger.GetPgxTraceLogLevel(tt.in), tt.in.String())
	}
}
