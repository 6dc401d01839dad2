package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-lotes/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, config.IssuePolicyPartial, cfg.Ledger.IssuePolicy)
	assert.Equal(t, 5, cfg.Ledger.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Ledger.LockTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/lotes.db")
	t.Setenv("LEDGER_ISSUE_POLICY", "strict")
	t.Setenv("LEDGER_MAX_RETRIES", "3")
	t.Setenv("LEDGER_LOCK_TIMEOUT", "750ms")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/lotes.db", cfg.DB.SQLitePath)
	assert.Equal(t, config.IssuePolicyStrict, cfg.Ledger.IssuePolicy)
	assert.Equal(t, 3, cfg.Ledger.MaxRetries)
	assert.Equal(t, 750*time.Millisecond, cfg.Ledger.LockTimeout)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_LockTimeoutEnMilisegundos(t *testing.T) {
	t.Setenv("LEDGER_LOCK_TIMEOUT", "1500")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Ledger.LockTimeout)
}

func TestLoad_ValoresInvalidos(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("LEDGER_ISSUE_POLICY", "todo")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "LEDGER_ISSUE_POLICY")
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "lotes", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/lotes?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
