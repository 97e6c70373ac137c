package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveSettings_Defaults(t *testing.T) {
	s := EffectiveSettings()

	assert.NotEmpty(t, s.BaseURL)
	assert.Greater(t, s.MaxRetries, 0)
	assert.Greater(t, s.BaseDelayMS, 0)
	assert.LessOrEqual(t, s.MaxRetries, 10)
}

func TestLoadSettingsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: https://staging.draftmill.test\nmax_retries: 2\nbase_delay_ms: 250\n"), 0600))

	s, err := loadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.draftmill.test", s.BaseURL)
	assert.Equal(t, 2, s.MaxRetries)
	assert.Equal(t, 250, s.BaseDelayMS)
}

func TestLoadSettingsFile_Missing(t *testing.T) {
	_, err := loadSettingsFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadSettingsFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: [unterminated"), 0600))

	_, err := loadSettingsFile(path)
	assert.Error(t, err)
}

func TestSessionDBOverride(t *testing.T) {
	SetSessionDBOverride("/tmp/override.db")
	t.Cleanup(func() { SetSessionDBOverride("") })

	path, err := GetSessionDBPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", path)
}

func TestGetSessionDBPath_Default(t *testing.T) {
	SetSessionDBOverride("")

	path, err := GetSessionDBPath()
	require.NoError(t, err)
	assert.Equal(t, "session.db", filepath.Base(path))
}
