package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-account-ledger/pkg/database"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, database.DriverSQLite, cfg.Store.Database.Driver)
	assert.Equal(t, "data/ledger.db", cfg.Store.Database.Path)
	assert.Equal(t, 5*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, DefaultRemoteBaseURL, cfg.Remote.BaseURL)
}

func TestParse_MySQLWithEnv(t *testing.T) {
	t.Setenv("LEDGER_DB_PASSWORD", "s3cret")
	cfg, err := Parse([]byte(`
server:
  addr: ":9090"
store:
  driver: mysql
  database:
    host: db
    user: ledger
    password: ${LEDGER_DB_PASSWORD}
    db_name: bank
    conn_max_lifetime: 1m
remote:
  base_url: http://core:9090/api
  timeout: 2s
`))
	require.NoError(t, err)
	assert.Equal(t, database.DriverMySQL, cfg.Store.Database.Driver)
	assert.Equal(t, "s3cret", cfg.Store.Database.Password)
	assert.Equal(t, time.Minute, cfg.Store.Database.ConnMaxLifetime)
	assert.Equal(t, 3306, cfg.Store.Database.Port)
	assert.Equal(t, 2*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, "http://core:9090/api", cfg.Remote.BaseURL)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown driver":   "store:\n  driver: oracle\n",
		"mysql needs host": "store:\n  driver: mysql\n  database:\n    db_name: bank\n",
		"bad log level":    "log:\n  level: loud\n",
		"bad remote url":   "remote:\n  base_url: not a url\n",
		"negative timeout": "remote:\n  timeout: -1s\n",
		"malformed yaml":   "server: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_MemoryStore(t *testing.T) {
	cfg, err := Parse([]byte("store:\n  driver: memory\n  memory:\n    journal: data/ledger.wal\n"))
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, "data/ledger.wal", cfg.Store.Memory.Journal)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":7000\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestParse_RemoteFromEnv(t *testing.T) {
	doc := []byte("remote:\n  base_url: ${LEDGER_REMOTE_URL}\n")

	t.Setenv("LEDGER_REMOTE_URL", "")
	cfg, err := Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, DefaultRemoteBaseURL, cfg.Remote.BaseURL)

	t.Setenv("LEDGER_REMOTE_URL", "http://ledger.internal:8080/api")
	cfg, err = Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, "http://ledger.internal:8080/api", cfg.Remote.BaseURL)
}

func TestRemoteConfig_Override(t *testing.T) {
	base := RemoteConfig{BaseURL: "http://core:9090/api", Timeout: 2 * time.Second}

	assert.Equal(t, base, base.Override("", 0))

	got := base.Override("http://other:8080/api", 0)
	assert.Equal(t, "http://other:8080/api", got.BaseURL)
	assert.Equal(t, 2*time.Second, got.Timeout)

	got = base.Override("", 30*time.Second)
	assert.Equal(t, "http://core:9090/api", got.BaseURL)
	assert.Equal(t, 30*time.Second, got.Timeout)

	// 原值不受影響
	assert.Equal(t, 2*time.Second, base.Timeout)
}
