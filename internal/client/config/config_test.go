package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:3000", c.ServerURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 10*time.Second, c.ValidateTimeout)
	assert.Equal(t, "menuup.db", c.DBPath)
	assert.Empty(t, c.StorageSecret)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoad_NoSources(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"server_url":      "http://from-json",
		"db_path":         "json.db",
		"log_level":       "warn",
		"request_timeout": "20s",
	})
	t.Setenv("MENUUP_DB_PATH", "env.db")
	t.Setenv("MENUUP_LOG_LEVEL", "error")

	cfg, err := Load([]string{"-c", path, "-l", "debug"})
	require.NoError(t, err)

	assert.Equal(t, "http://from-json", cfg.ServerURL, "json over defaults")
	assert.Equal(t, "env.db", cfg.DBPath, "env over json")
	assert.Equal(t, "debug", cfg.LogLevel, "flags over env")
	assert.Equal(t, 20*time.Second, cfg.RequestTimeout)
}

func TestLoad_PropagatesErrors(t *testing.T) {
	_, err := Load([]string{"-t", "nope"})
	require.Error(t, err)

	t.Setenv("MENUUP_VALIDATE_TIMEOUT", "later")
	_, err = Load(nil)
	require.ErrorContains(t, err, "parse env:")
}
