package database

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func query() (string, int64) {
	return "SELECT * FROM `accounts` WHERE id = 1", 1
}

func TestGormLogger_Levels(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	slow := time.Now().Add(-time.Second)

	cases := []struct {
		name  string
		level string
		begin time.Time
		err   error
		want  string
	}{
		{"error logged", "error", time.Now(), boom, "sql failed"},
		{"not found ignored", "error", time.Now(), gorm.ErrRecordNotFound, ""},
		{"silent drops errors", "silent", time.Now(), boom, ""},
		{"slow at warn", "warn", slow, nil, "slow sql"},
		{"slow hidden at error", "error", slow, nil, ""},
		{"fast hidden at warn", "warn", time.Now(), nil, ""},
		{"every sql at info", "info", time.Now(), nil, `"message":"sql"`},
		{"unknown level is error", "loud", time.Now(), boom, "sql failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(tc.level, zerolog.New(&buf))
			l.Trace(ctx, tc.begin, query, tc.err)

			if tc.want == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tc.want)
			assert.Contains(t, buf.String(), `"component":"gorm"`)
			assert.Contains(t, buf.String(), "FROM `accounts`")
		})
	}
}

func TestGormLogger_LogMode(t *testing.T) {
	var buf bytes.Buffer
	base := newLogger("silent", zerolog.New(&buf))
	verbose := base.LogMode(logger.Info)

	base.Info(context.Background(), "migrating %s", "accounts")
	assert.Empty(t, buf.String())

	verbose.Info(context.Background(), "migrating %s", "accounts")
	assert.Contains(t, buf.String(), "migrating accounts")
}

func TestNewClient_SQLGoesToZerolog(t *testing.T) {
	var buf bytes.Buffer
	client, err := NewClient(Config{
		Driver:   DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "bank.db"),
		LogLevel: "error",
	}, zerolog.New(&buf))
	require.NoError(t, err)
	defer client.Close()

	err = client.DB().Exec("SELECT * FROM missing_table").Error
	require.Error(t, err)
	assert.Contains(t, buf.String(), "sql failed")
	assert.Contains(t, buf.String(), "missing_table")
}
