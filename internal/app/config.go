package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/draftmill/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "draftmill"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# draftmill configuration
# Run: draftmill --help

# API endpoint. Can also be set via DRAFTMILL_BASE_URL or --base-url.
# base_url: https://api.draftmill.com

# Override the session database location.
# Can also be set via DRAFTMILL_SESSION_DB or --session-db.
# session_db_path: ~/.config/draftmill/session.db

# Retry policy for idempotent API calls.
# max_retries: 3
# base_delay_ms: 1000
`
