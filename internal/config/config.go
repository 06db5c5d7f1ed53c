package config

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// App holds core runtime configuration.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"trivia-api"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Store    Store
	Postgres Postgres
	SQLite   SQLite
	Redis    Redis
	CORS     CORS
	Importer Importer
}

// Store selects the persistence backend.
type Store struct {
	Driver string `env:"STORE_DRIVER" envDefault:"postgres"`
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host        string `env:"PG_HOST" envDefault:"localhost"`
	Port        int    `env:"PG_PORT" envDefault:"5432"`
	User        string `env:"PG_USER" envDefault:""`
	Password    string `env:"PG_PASSWORD" envDefault:""`
	Database    string `env:"PG_DATABASE" envDefault:""`
	SSLMode     string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns    int    `env:"PG_MAX_CONNS" envDefault:"10"`
	AutoMigrate bool   `env:"PG_AUTO_MIGRATE" envDefault:"false"`
}

// ConnString renders a postgres:// URL for single connections (database/sql).
func (p Postgres) ConnString() string {
	return p.url(nil)
}

// PoolConnString is ConnString plus the pgxpool sizing parameter.
func (p Postgres) PoolConnString() string {
	return p.url(url.Values{"pool_max_conns": {strconv.Itoa(p.MaxConns)}})
}

func (p Postgres) url(extra url.Values) string {
	q := url.Values{"sslmode": {p.SSLMode}}
	for k, v := range extra {
		q[k] = v
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:     "/" + p.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// SQLite configures the embedded database driver.
type SQLite struct {
	DSN string `env:"SQLITE_DSN" envDefault:"file:trivia.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"`
}

// Redis holds the Redis store configuration.
type Redis struct {
	Addr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	DB        int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize  int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"trivia"`
}

// Importer configures the Open Trivia DB client used by cmd/importer.
type Importer struct {
	OpenTDBURL string        `env:"OPENTDB_URL" envDefault:"https://opentdb.com"`
	Timeout    time.Duration `env:"OPENTDB_TIMEOUT" envDefault:"5s"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,PUT,POST,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	MaxAge         int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the selected store driver depends on.
func (c *App) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Postgres.User == "" || c.Postgres.Database == "" {
			return fmt.Errorf("PG_USER and PG_DATABASE must be set for the %s driver", DriverPostgres)
		}
	case DriverSQLite:
		if c.SQLite.DSN == "" {
			return fmt.Errorf("SQLITE_DSN must be set for the %s driver", DriverSQLite)
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR must be set for the %s driver", DriverRedis)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	return nil
}
