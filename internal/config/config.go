package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/fleetbooks/fleetbooks/internal/hr"
	"github.com/fleetbooks/fleetbooks/internal/importer"
	"github.com/fleetbooks/fleetbooks/internal/locale"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

// FileName is the configuration file created by init.
const FileName = "fleetbooks.yaml"

// Config represents the top-level fleetbooks.yaml configuration.
type Config struct {
	Business  BusinessConfig   `yaml:"business"`
	Fiscal    FiscalConfig     `yaml:"fiscal"`
	Database  store.Config     `yaml:"database"`
	Server    ServerConfig     `yaml:"server"`
	Payroll   hr.Rules         `yaml:"payroll"`
	Fleet     FleetConfig      `yaml:"fleet"`
	Inventory InventoryConfig  `yaml:"inventory"`
	Bank      importer.Posting `yaml:"bank"`
	Git       GitConfig        `yaml:"git"`
	Log       LogConfig        `yaml:"log"`
}

// BusinessConfig identifies the business and how its reports read.
type BusinessConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
	Language string `yaml:"language"` // "ar" or "en"
	Calendar string `yaml:"calendar"` // "gregorian" or "hijri"
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start"` // "MM-DD" format, e.g. "01-01"
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// FleetConfig holds fleet defaults.
type FleetConfig struct {
	DefaultCommissionRate decimal.Decimal `yaml:"default_commission_rate"`
}

// InventoryConfig holds stock defaults.
type InventoryConfig struct {
	DefaultReorderLevel decimal.Decimal `yaml:"default_reorder_level"`
}

// GitConfig controls git integration of book snapshots.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Settings returns the presentation settings of the business.
func (c *Config) Settings() locale.Settings {
	return locale.Settings{Language: c.Business.Language, Calendar: c.Business.Calendar}
}

// Validate checks the enumerated fields.
func (c *Config) Validate() error {
	var errs []error
	if c.Business.Language != locale.English && c.Business.Language != locale.Arabic {
		errs = append(errs, fmt.Errorf("business.language must be %q or %q, got %q", locale.English, locale.Arabic, c.Business.Language))
	}
	if c.Business.Calendar != locale.Gregorian && c.Business.Calendar != locale.Hijri {
		errs = append(errs, fmt.Errorf("business.calendar must be %q or %q, got %q", locale.Gregorian, locale.Hijri, c.Business.Calendar))
	}
	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		errs = append(errs, fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver))
	}
	if _, err := time.Parse("01-02", c.Fiscal.YearStart); err != nil {
		errs = append(errs, fmt.Errorf("fiscal.year_start must be MM-DD, got %q", c.Fiscal.YearStart))
	}
	if c.Payroll.WorkingDays <= 0 {
		errs = append(errs, fmt.Errorf("payroll.working_days must be positive, got %d", c.Payroll.WorkingDays))
	}
	if c.Bank.Account == "" || c.Bank.Income == "" || c.Bank.Expense == "" {
		errs = append(errs, errors.New("bank.account, bank.income_account and bank.expense_account are required"))
	}
	for i, r := range c.Bank.Rules {
		if r.Match == "" || r.Account == "" {
			errs = append(errs, fmt.Errorf("bank.rules[%d] needs match and account", i))
		}
	}
	return errors.Join(errs...)
}

// FiscalYearStart returns the first day of the fiscal year containing t.
func (c *Config) FiscalYearStart(t time.Time) time.Time {
	md, err := time.Parse("01-02", c.Fiscal.YearStart)
	if err != nil {
		md = time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	start := time.Date(t.Year(), md.Month(), md.Day(), 0, 0, 0, 0, t.Location())
	if start.After(t) {
		start = start.AddDate(-1, 0, 0)
	}
	return start
}

// Load reads a fleetbooks.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new business: an
// Arabic, Gregorian-dated book kept in a local sqlite file.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:     businessName,
			Currency: "SAR",
			Language: locale.Arabic,
			Calendar: locale.Gregorian,
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Database: store.Config{
			Driver: "sqlite",
			Name:   "fleetbooks.db",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Payroll: hr.DefaultRules(),
		Fleet: FleetConfig{
			DefaultCommissionRate: decimal.RequireFromString("0.10"),
		},
		Inventory: InventoryConfig{
			DefaultReorderLevel: decimal.NewFromInt(2),
		},
		Bank: importer.DefaultPosting(),
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "fleetbooks",
			AuthorEmail: "books@fleetbooks.local",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadEnv loads variables from .env style files into the process
// environment. Missing files are ignored; already-set variables win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Environment variables that override the file.
const (
	EnvDatabaseURL    = "FLEETBOOKS_DATABASE_URL"
	EnvDatabaseDriver = "FLEETBOOKS_DATABASE_DRIVER"
	EnvDatabaseDSN    = "FLEETBOOKS_DATABASE_DSN"
	EnvServerAddr     = "FLEETBOOKS_ADDR"
	EnvLogLevel       = "FLEETBOOKS_LOG_LEVEL"
)

// ApplyEnv overrides connection and server settings from the environment.
// getenv is usually os.Getenv. A database URL replaces the whole database
// section; driver and DSN then override individual fields.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv(EnvDatabaseURL); v != "" {
		db, err := store.ParseURL(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDatabaseURL, err)
		}
		cfg.Database = db
	}
	if v := getenv(EnvDatabaseDriver); v != "" {
		cfg.Database.Driver = v
	}
	if v := getenv(EnvDatabaseDSN); v != "" {
		cfg.Database.DSN = v
	}
	if v := getenv(EnvServerAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	return nil
}
