package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetbooks/fleetbooks/internal/importer"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Test Freight")
	cfg.Business.Calendar = "hijri"
	cfg.Payroll.EmployeeInsuranceRate = decimal.RequireFromString("0.0975")
	cfg.Bank.Rules = []importer.Rule{{Match: "diesel", Account: "5-2-2"}}

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Business, got.Business)
	assert.Equal(t, cfg.Fiscal.YearStart, got.Fiscal.YearStart)
	assert.Equal(t, cfg.Database, got.Database)
	assert.Equal(t, cfg.Server, got.Server)
	assert.True(t, got.Payroll.EmployeeInsuranceRate.Equal(decimal.RequireFromString("0.0975")))
	assert.True(t, got.Payroll.OvertimeMultiplier.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, 30, got.Payroll.WorkingDays)
	assert.True(t, got.Fleet.DefaultCommissionRate.Equal(cfg.Fleet.DefaultCommissionRate))
	assert.Equal(t, cfg.Bank, got.Bank)
	assert.Equal(t, cfg.Git, got.Git)
	assert.Equal(t, "info", got.Log.Level)
	require.NoError(t, got.Validate())
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company")

	assert.Equal(t, "My Company", cfg.Business.Name)
	assert.Equal(t, "ar", cfg.Business.Language)
	assert.Equal(t, "01-01", cfg.Fiscal.YearStart)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.Git.AutoCommit)
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.Settings().RTL())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business:\n  name: Partial\n  language: en\n  calendar: gregorian\nserver:\n  addr: \":9090\"\n  read_timeout: 5s\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Partial", cfg.Business.Name)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 30, cfg.Payroll.WorkingDays)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Test Freight")
	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Freight")
	assert.Contains(t, contents, "year_start: 01-01")
	assert.Contains(t, contents, "driver: sqlite")
	assert.Contains(t, contents, "read_timeout: 15s")
	assert.Contains(t, contents, "auto_commit: true")
}

func TestValidate(t *testing.T) {
	cfg := Default("x")
	cfg.Business.Language = "fr"
	cfg.Business.Calendar = "julian"
	cfg.Database.Driver = "oracle"
	cfg.Fiscal.YearStart = "13-01"
	cfg.Payroll.WorkingDays = 0
	cfg.Bank.Account = ""
	cfg.Bank.Rules = []importer.Rule{{Match: "diesel"}}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"business.language", "business.calendar", "database.driver", "fiscal.year_start", "payroll.working_days", "bank.account", "bank.rules[0]"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestFiscalYearStart(t *testing.T) {
	cfg := Default("x")
	cfg.Fiscal.YearStart = "07-01"
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), cfg.FiscalYearStart(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), cfg.FiscalYearStart(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvDatabaseURL: "postgres://books:pw@db:5432/fleet?sslmode=disable",
		EnvServerAddr:  ":7000",
		EnvLogLevel:    "debug",
	}
	cfg := Default("x")
	require.NoError(t, ApplyEnv(cfg, func(k string) string { return env[k] }))
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, "fleet", cfg.Database.Name)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)

	env = map[string]string{EnvDatabaseURL: "mysql://nope"}
	assert.Error(t, ApplyEnv(Default("x"), func(k string) string { return env[k] }))
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("FLEETBOOKS_TEST_ONLY=from-file\n"), 0o644))
	t.Setenv("FLEETBOOKS_TEST_ONLY", "")
	require.NoError(t, os.Unsetenv("FLEETBOOKS_TEST_ONLY"))

	require.NoError(t, LoadEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("FLEETBOOKS_TEST_ONLY"))
}
