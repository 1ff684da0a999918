package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithConfig_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithConfig(Config{Level: "debug", Output: &buf}, Service{Name: "ledger", Version: "test"})
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Debug().Int64("account_id", 7).Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ledger", entry["service"])
	assert.Equal(t, "test", entry["version"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, float64(7), entry["account_id"])
	assert.Contains(t, entry, "time")
}

func TestNewWithConfig_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithConfig(Config{Level: "warn", Output: &buf}, Service{Name: "ledger"})
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewWithConfig_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithConfig(Config{Level: "loud", Output: &buf}, Service{Name: "ledger"})
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Debug().Msg("dropped")
	log.Info().Msg("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
