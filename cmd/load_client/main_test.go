package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-account-ledger/pkg/config"
)

func TestLoadRemote_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "remote:\n  base_url: http://core:9090/api\n  timeout: 3s\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := loadRemote(path)
	require.NoError(t, err)
	assert.Equal(t, "http://core:9090/api", cfg.Remote.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)

	rc := cfg.Remote.Override("", 10*time.Second)
	assert.Equal(t, "http://core:9090/api", rc.BaseURL)
	assert.Equal(t, 10*time.Second, rc.Timeout)
}

func TestLoadRemote_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadRemote(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultRemoteBaseURL, cfg.Remote.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Remote.Timeout)
}

func TestLoadRemote_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("remote:\n  base_url: not a url\n"), 0644))

	_, err := loadRemote(path)
	assert.Error(t, err)
}
