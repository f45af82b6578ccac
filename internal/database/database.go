// Package database contains the logic for establishing
// connections to the PostgreSQL database.
//
// It specifically handles database pooling (maintaining active
// connections for efficiency), integrates the logger with the
// database driver (pgx), and provides the transaction helper the
// rest of the application uses for grouped statements.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/items-api/internal/config"
	loggerPkg "github.com/deppfellow/items-api/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// DatabasePingTimeout is the number of seconds to wait for the startup ping
// before considering the database unreachable.
const DatabasePingTimeout = 10

// Database wraps the pgx connection pool and a logger.
//
// Pool is the shared connection pool; it is the only durable-state owner in
// the application and is passed into every repository at startup.
// log is used for lifecycle and transaction failure logs.
type Database struct {
	Pool *pgxpool.Pool
	log  *zerolog.Logger
}

// New creates a PostgreSQL connection pool from the configured connection
// string.
//
// Behavior:
//   - Parse the connection string into a pgxpool config; a malformed string
//     fails startup here.
//   - Apply pool tuning from config (max/min connections, connect timeout,
//     idle time).
//   - In the local env, attach a zerolog-backed SQL tracer so every statement
//     shows up in local logs.
//   - Create the pool, ping it, and return the wrapper.
func New(cfg *config.Config, logger *zerolog.Logger) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(cfg.Database.MaxConns)
	pgxPoolConfig.MinConns = int32(cfg.Database.MinConns)
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.MaxConnIdleTime) * time.Second
	pgxPoolConfig.ConnConfig.ConnectTimeout = time.Duration(cfg.Database.ConnectTimeout) * time.Second

	// In local env, enable SQL query logging using pgx tracelog + zerolog.
	// This is very noisy, which is why it stays out of every other env.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerPkg.NewPgxLogger(globalLevel)

		pgxPoolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
			// pgxzero adapts zerolog to the pgx tracelog.Logger interface.
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: loggerPkg.GetPgxTraceLogLevel(globalLevel),
		}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	database := &Database{
		Pool: pool,
		log:  logger,
	}

	// Ping with a timeout so startup fails fast if the database is down.
	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Msg("connected to the database")

	return database, nil
}

// Close closes the database connection pool.
//
// pgxpool.Pool.Close is safe to call once at shutdown and frees resources.
// Returns nil because pgxpool's Close doesn't return an error.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	db.Pool.Close()
	return nil
}
