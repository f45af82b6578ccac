// Package config manages environment variables.
//
// It reads variables from the process environment (optionally
// preloaded from a `.env` file), loads them into structured Go
// types, applies defaults for optional values, and validates
// that required values are present so the app fails fast on bad
// or missing configuration.
//
// Env vars are read using the prefix ITEMS_ and a double
// underscore as the nesting delimiter:
//
//	ITEMS_SERVER__PORT        -> server.port        -> Config.Server.Port
//	ITEMS_DATABASE__URL       -> database.url       -> Config.Database.URL
//	ITEMS_LOGGING__LEVEL      -> logging.level      -> Config.Logging.Level
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file (if present) into the process
	// environment before any env var is read. No explicit call needed.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// envPrefix is the prefix every recognized environment variable carries.
const envPrefix = "ITEMS_"

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from.
// The `validate:"..."` tags are enforced by go-playground/validator after
// defaults are applied, so a missing required value fails startup.
type Config struct {
	Primary  Primary        `koanf:"primary"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// Primary holds top-level information about the runtime environment.
// Used to tag logs and to switch behavior (console logging, SQL tracing)
// in the "local" environment.
type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=local development staging production"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are stored as whole seconds, matching how they arrive from the
// environment; they are converted to time.Duration at the point of use.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required,numeric"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// DatabaseConfig contains the PostgreSQL connection string and pool tuning.
//
// URL is the only setting without a default: the service cannot run without
// a database, so startup fails when it is absent. Whether the string is
// well-formed is checked when the pool config is parsed, which also fails
// startup.
type DatabaseConfig struct {
	URL             string `koanf:"url" validate:"required"`
	MaxConns        int    `koanf:"max_conns" validate:"min=1"`
	MinConns        int    `koanf:"min_conns" validate:"min=0"`
	ConnectTimeout  int    `koanf:"connect_timeout" validate:"min=1"`
	MaxConnIdleTime int    `koanf:"max_conn_idle_time" validate:"min=1"`
}

// LoggingConfig holds application logging configuration.
type LoggingConfig struct {
	// Level is the verbosity threshold (trace/debug/info/warn/error).
	Level string `koanf:"level" validate:"required,oneof=trace debug info warn error"`

	// Format selects the output format for logs ("json" or "console").
	// JSON is the default so log pipelines get structured entries; console
	// is meant for local development.
	Format string `koanf:"format" validate:"required,oneof=json console"`
}

// New loads configuration from environment variables, unmarshals it into the
// Config struct, applies defaults, and validates the result.
func New() (*Config, error) {
	// The "." is the key-path delimiter koanf uses to represent nesting,
	// e.g. "server.port" means Config.Server.Port.
	k := koanf.New(".")

	// Load environment variables into koanf. The mapping function strips the
	// prefix, lowercases, and converts the "__" nesting delimiter into ".",
	// so single underscores survive inside key names (read_timeout).
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	cfg := &Config{}

	// Unmarshal everything from the root into cfg.
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.applyDefaults()

	// Validate the entire config struct recursively. Any missing required
	// field or out-of-range value aborts startup.
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// applyDefaults fills zero values with sane defaults so only the database
// connection string is mandatory in the environment.
func (c *Config) applyDefaults() {
	if c.Primary.Env == "" {
		c.Primary.Env = "local"
	}

	if c.Server.Port == "" {
		c.Server.Port = "3000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}

	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 10
	}
	if c.Database.ConnectTimeout == 0 {
		c.Database.ConnectTimeout = 5
	}
	if c.Database.MaxConnIdleTime == 0 {
		c.Database.MaxConnIdleTime = 300
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		if c.Primary.Env == "local" {
			c.Logging.Format = "console"
		} else {
			c.Logging.Format = "json"
		}
	}
}
