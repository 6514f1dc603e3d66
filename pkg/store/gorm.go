package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DatabaseType defines the supported database backends.
type DatabaseType string

const (
	// DatabaseTypeSQLite uses an embedded SQLite file (default).
	DatabaseTypeSQLite DatabaseType = "sqlite"

	// DatabaseTypePostgres uses a PostgreSQL database shared by several hosts.
	DatabaseTypePostgres DatabaseType = "postgres"
)

// DefaultSQLitePath is the database file used when no path is configured.
const DefaultSQLitePath = "./config.db"

// DefaultBusyTimeout is how long SQLite waits on a locked database before
// failing the statement.
const DefaultBusyTimeout = 5 * time.Second

// SQLiteConfig contains SQLite-specific configuration.
type SQLiteConfig struct {
	// Path is the path to the SQLite database file.
	// Default: ./config.db
	Path string `mapstructure:"path" yaml:"path"`

	// BusyTimeout bounds the wait on a locked database. Lock contention
	// past this point surfaces as a storage error.
	// Default: 5s
	BusyTimeout time.Duration `mapstructure:"busy_timeout" yaml:"busy_timeout"`
}

// DSN returns the SQLite connection string with WAL journaling and the busy
// timeout applied.
func (c *SQLiteConfig) DSN() string {
	return fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)",
		c.Path, c.BusyTimeout.Milliseconds())
}

// PostgresConfig contains PostgreSQL-specific configuration.
type PostgresConfig struct {
	Host         string `mapstructure:"host" yaml:"host"`
	Port         int    `mapstructure:"port" yaml:"port"`
	Database     string `mapstructure:"database" yaml:"database"`
	User         string `mapstructure:"user" yaml:"user"`
	Password     string `mapstructure:"password" yaml:"password,omitempty"`
	SSLMode      string `mapstructure:"sslmode" yaml:"sslmode"` // disable, require, verify-ca, verify-full
	MaxOpenConns int    `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
}

// DSN returns the PostgreSQL connection string.
func (c *PostgresConfig) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		c.Host, c.Port, c.User, c.Password, c.Database)
	if c.SSLMode != "" {
		dsn += fmt.Sprintf(" sslmode=%s", c.SSLMode)
	}
	return dsn
}

// Config contains database configuration.
type Config struct {
	Type     DatabaseType   `mapstructure:"type" yaml:"type"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite" yaml:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres" yaml:"postgres,omitempty"`
}

// ApplyDefaults fills in missing configuration with default values.
func (c *Config) ApplyDefaults() {
	if c.Type == "" {
		c.Type = DatabaseTypeSQLite
	}

	if c.Type == DatabaseTypeSQLite {
		if c.SQLite.Path == "" {
			c.SQLite.Path = DefaultSQLitePath
		}
		if c.SQLite.BusyTimeout == 0 {
			c.SQLite.BusyTimeout = DefaultBusyTimeout
		}
	}

	if c.Type == DatabaseTypePostgres {
		if c.Postgres.Port == 0 {
			c.Postgres.Port = 5432
		}
		if c.Postgres.SSLMode == "" {
			c.Postgres.SSLMode = "disable"
		}
		if c.Postgres.MaxOpenConns == 0 {
			c.Postgres.MaxOpenConns = 10
		}
		if c.Postgres.MaxIdleConns == 0 {
			c.Postgres.MaxIdleConns = 2
		}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Type {
	case DatabaseTypeSQLite:
		if c.SQLite.Path == "" {
			return errors.New("sqlite path is required")
		}
		if c.SQLite.BusyTimeout < 0 {
			return errors.New("sqlite busy_timeout must not be negative")
		}
	case DatabaseTypePostgres:
		if c.Postgres.Host == "" {
			return errors.New("postgres host is required")
		}
		if c.Postgres.Database == "" {
			return errors.New("postgres database is required")
		}
		if c.Postgres.User == "" {
			return errors.New("postgres user is required")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Type)
	}
	return nil
}

// Option customizes a GORMStore.
type Option func(*GORMStore)

// WithMetrics records operation metrics into m. A nil m disables metrics.
func WithMetrics(m Metrics) Option {
	return func(s *GORMStore) {
		s.metrics = m
	}
}

// GORMStore implements Store on top of GORM.
//
// One GORMStore owns one logical store: construct it once per database and
// pass it to whatever needs configuration access. Every operation runs in its
// own session borrowing a pooled connection for the duration of the call.
type GORMStore struct {
	db      *gorm.DB
	config  *Config
	metrics Metrics
}

// New opens the database described by config and creates the config and
// modules tables if they are absent.
func New(config *Config, opts ...Option) (*GORMStore, error) {
	if config == nil {
		config = &Config{}
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	var dialector gorm.Dialector
	switch config.Type {
	case DatabaseTypeSQLite:
		if !isInMemory(config.SQLite.Path) {
			if err := os.MkdirAll(filepath.Dir(config.SQLite.Path), 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(config.SQLite.DSN())

	case DatabaseTypePostgres:
		dialector = postgres.Open(config.Postgres.DSN())

	default:
		return nil, fmt.Errorf("unsupported database type: %s", config.Type)
	}

	return open(dialector, config, opts...)
}

// open finishes construction once the dialector is known.
func open(dialector gorm.Dialector, config *Config, opts ...Option) (*GORMStore, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		// every write is a single statement; SetAllModules opens its own
		// transaction
		SkipDefaultTransaction: true,
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if config.Type == DatabaseTypePostgres && config.Postgres.MaxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying database: %w", err)
		}
		sqlDB.SetMaxOpenConns(config.Postgres.MaxOpenConns)
		sqlDB.SetMaxIdleConns(config.Postgres.MaxIdleConns)
	}

	store := &GORMStore{
		db:     db,
		config: config,
	}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.EnsureSchema(context.Background()); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return store, nil
}

// DB returns the underlying GORM database connection.
// This is useful for advanced queries or testing.
func (s *GORMStore) DB() *gorm.DB {
	return s.db
}

// Config returns the effective database configuration.
func (s *GORMStore) Config() Config {
	return *s.config
}

func (s *GORMStore) backend() string {
	return string(s.config.Type)
}

func isInMemory(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}
