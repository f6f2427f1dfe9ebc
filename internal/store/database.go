// Package store is the relational backend: named tables reached through
// generic select/insert/update/delete operations.
package store

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config selects and addresses the database.
//
// For sqlite only Name is used: a file path, or empty for an in-memory
// database. Postgres needs the connection fields or a DSN.
type Config struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Host     string `yaml:"host,omitempty"`
	Port     string `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	SSLMode  string `yaml:"sslmode,omitempty"`
	Schema   string `yaml:"schema,omitempty"`
}

// ParseURL turns a connection string into a Config. "file:" URLs select
// sqlite; "postgres://" and "postgresql://" select postgres.
func ParseURL(raw string) (Config, error) {
	if strings.HasPrefix(raw, "file:") {
		name := strings.SplitN(strings.TrimPrefix(raw, "file:"), "?", 2)[0]
		return Config{Driver: "sqlite", Name: name}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Config{}, fmt.Errorf("invalid connection string: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return Config{}, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}

	cfg := Config{
		Driver:  "postgres",
		Host:    u.Hostname(),
		Port:    u.Port(),
		Name:    strings.TrimPrefix(u.Path, "/"),
		SSLMode: u.Query().Get("sslmode"),
		Schema:  u.Query().Get("search_path"),
	}
	if cfg.Port == "" {
		cfg.Port = "5432"
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Password, _ = u.User.Password()
	}
	return cfg, nil
}

// Open connects to the configured database.
func Open(cfg Config, logger *zap.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger: gormlogger.New(zap.NewStdLog(logger.Named("gorm")), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	}

	switch cfg.Driver {
	case "postgres":
		dsn := postgresDSN(cfg)
		logger.Info("connecting to postgres", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
		db, err := gorm.Open(postgres.Open(dsn), gcfg)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		return db, nil

	case "sqlite", "":
		dsn := sqliteDSN(cfg)
		logger.Info("connecting to sqlite", zap.String("dsn", dsn))
		db, err := gorm.Open(sqlite.Open(dsn), gcfg)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		// sqlite serialises writers; one connection also keeps an
		// in-memory database alive for the life of the pool.
		sqlDB.SetMaxOpenConns(1)
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}
}

// Close releases the database handle.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func sqliteDSN(cfg Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	if cfg.Name == "" {
		return "file::memory:?cache=shared&_foreign_keys=on"
	}
	return fmt.Sprintf("file:%s?_foreign_keys=on", cfg.Name)
}

func postgresDSN(cfg Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode)
	if cfg.Schema != "" {
		dsn += " search_path=" + cfg.Schema
	}
	return dsn
}
