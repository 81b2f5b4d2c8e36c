// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types and validates that required
// values are present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide defaults for optional blocks (server timeouts, pool, observability).
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process environment before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the QUERYLAB_ prefix. Keys are lowercased, the
	prefix is removed and a double underscore marks nesting:

	  QUERYLAB_SERVER__PORT          -> server.port          -> Config.Server.Port
	  QUERYLAB_DATABASE__SSL_MODE    -> database.ssl_mode    -> Config.Database.SSLMode
	  QUERYLAB_OBSERVABILITY__LOGGING__LEVEL -> observability.logging.level
*/

const (
	// EnvPrefix is the prefix every configuration variable carries.
	EnvPrefix = "QUERYLAB_"

	// ServiceName labels logs and traces.
	ServiceName = "querylab"
)

// Query styles accepted by QueryConfig.Style.
const (
	QueryStyleORM  = "orm"
	QueryStyleText = "text"
)

// Config is the root configuration object for the application.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Query         QueryConfig          `koanf:"query" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
//
// ConnMaxLifetime and ConnMaxIdleTime are in seconds.
// SeedFixtures loads the reference data set on startup when the schema is empty.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
	SeedFixtures    bool   `koanf:"seed_fixtures"`
}

// DSN renders the connection settings as a postgres:// URL.
// The password is URL-escaped so reserved characters survive.
func (d DatabaseConfig) DSN() string {
	hostPort := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User,
		url.QueryEscape(d.Password),
		hostPort,
		d.Name,
		d.SSLMode,
	)
}

// QueryConfig selects which data-access style serves the service layer.
type QueryConfig struct {
	Style string `koanf:"style" validate:"required,oneof=orm text"`
}

// defaults are applied before the environment so any variable can override them.
var defaults = map[string]any{
	"server.port":                 "8080",
	"server.read_timeout":         30,
	"server.write_timeout":        30,
	"server.idle_timeout":         60,
	"server.cors_allowed_origins": []string{"*"},
	"database.port":               5432,
	"database.ssl_mode":           "disable",
	"database.max_open_conns":     10,
	"database.max_idle_conns":     2,
	"database.conn_max_lifetime":  3600,
	"database.conn_max_idle_time": 300,
	"query.style":                 QueryStyleORM,

	"observability.service_name":                          ServiceName,
	"observability.environment":                           "development",
	"observability.logging.level":                         "info",
	"observability.logging.format":                        "json",
	"observability.logging.slow_query_threshold":          "100ms",
	"observability.new_relic.app_log_forwarding_enabled":  true,
	"observability.new_relic.distributed_tracing_enabled": true,
	"observability.health_checks.enabled":                 true,
	"observability.health_checks.interval":                "30s",
	"observability.health_checks.timeout":                 "5s",
	"observability.health_checks.checks":                  []string{"database"},
}

// envKey maps QUERYLAB_DATABASE__SSL_MODE to database.ssl_mode.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// envValue splits comma separated lists so they unmarshal into slices.
func envValue(key, value string) (string, any) {
	key = envKey(key)
	if strings.HasSuffix(key, "cors_allowed_origins") || strings.HasSuffix(key, ".checks") {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return key, parts
	}
	return key, value
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, validates it and fills in observability defaults.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
