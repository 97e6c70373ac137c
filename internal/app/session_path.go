package app

import (
	"fmt"
	"path/filepath"
)

// GetSessionDBPath resolves the session database path.
// Order of precedence:
// 1) CLI override (e.g. --session-db)
// 2) Environment variable: DRAFTMILL_SESSION_DB (via settings overlay)
// 3) config.yaml: session_db_path
// 4) Default: ~/.config/draftmill/session.db
func GetSessionDBPath() (string, error) {
	if override := getSessionDBOverride(); override != "" {
		return override, nil
	}

	cfg, err := LoadSettings()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.SessionDBPath != "" {
		return cfg.SessionDBPath, nil
	}

	configDir, err := ConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(configDir, "session.db"), nil
}
