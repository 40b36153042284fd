package domain

import "time"

// Config represents the main application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Catalog    CatalogFile      `mapstructure:"catalog"`
	Store      StoreConfig      `mapstructure:"store"`
	Database   DatabaseConfig   `mapstructure:"database"`
	References ReferencesConfig `mapstructure:"references"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// CatalogFile points at an optional catalog JSON document. When Path is
// empty the built-in default catalog is used.
type CatalogFile struct {
	Path string `mapstructure:"path"`
}

// StoreConfig selects the clinician feedback backend.
type StoreConfig struct {
	Backend    string `mapstructure:"backend"` // "sqlite" or "postgres"
	SQLitePath string `mapstructure:"sqlite_path"`
}

// DatabaseConfig represents the PostgreSQL connection configuration used by
// the postgres feedback backend.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// ReferencesConfig configures the reference-lookup collaborator.
type ReferencesConfig struct {
	Mode       string        `mapstructure:"mode"` // "builtin" or "remote"
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	CacheSize  int           `mapstructure:"cache_size"`
	MaxResults int           `mapstructure:"max_results"`
}

// RateLimitConfig configures per-client request throttling at the API edge.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
