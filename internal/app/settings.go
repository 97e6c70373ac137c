package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Settings represents configuration loaded from config.yaml with
// DRAFTMILL_* environment variables layered on top.
// Field names match snake_case YAML keys.
type Settings struct {
	BaseURL       string `yaml:"base_url" envconfig:"BASE_URL"`
	SessionDBPath string `yaml:"session_db_path" envconfig:"SESSION_DB"`
	MaxRetries    int    `yaml:"max_retries" envconfig:"MAX_RETRIES"`
	BaseDelayMS   int    `yaml:"base_delay_ms" envconfig:"BASE_DELAY_MS"`
}

const (
	defaultBaseURL     = "https://api.draftmill.com"
	defaultMaxRetries  = 3
	defaultBaseDelayMS = 1000
)

// EffectiveSettings returns validated settings with defaults applied.
// Invalid or missing config values fall back to safe defaults.
func EffectiveSettings() Settings {
	s, err := LoadSettings()
	if err != nil {
		s = Settings{}
	}

	if s.BaseURL == "" {
		s.BaseURL = defaultBaseURL
	}
	if s.MaxRetries <= 0 {
		s.MaxRetries = defaultMaxRetries
	}
	if s.BaseDelayMS <= 0 {
		s.BaseDelayMS = defaultBaseDelayMS
	}
	if s.MaxRetries > 10 {
		s.MaxRetries = 10
	}
	return s
}

// settingsOnce, settings, settingsErr implement the sync.Once lazy-load
// singleton for config; the RWMutex pair backs the CLI --session-db override.
//
//nolint:gochecknoglobals // sync.Once singleton + RWMutex override are intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	sessionDBOverrideMu sync.RWMutex
	sessionDBOverride   string
)

// SetSessionDBOverride sets a process-wide session database path override.
// Intended for CLI flag support (e.g. --session-db).
func SetSessionDBOverride(path string) {
	sessionDBOverrideMu.Lock()
	sessionDBOverride = path
	sessionDBOverrideMu.Unlock()
}

func getSessionDBOverride() string {
	sessionDBOverrideMu.RLock()
	v := sessionDBOverride
	sessionDBOverrideMu.RUnlock()
	return v
}

// LoadSettings loads configuration once using the documented lookup order.
// Lookup order (first found wins):
// 1) ~/.config/draftmill/config.yaml
// 2) /etc/draftmill/config.yaml
// 3) ./config.yaml (lowest priority; allows repo-local overrides if desired)
// DRAFTMILL_* environment variables override whatever the file provided.
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings, settingsErr = loadSettings()
	})
	return settings, settingsErr
}

func loadSettings() (Settings, error) {
	var s Settings

	dir, err := ConfigDir()
	if err != nil {
		return Settings{}, err
	}

	paths := []string{
		filepath.Join(dir, "config.yaml"),
		filepath.Join(string(os.PathSeparator), "etc", "draftmill", "config.yaml"),
		"config.yaml",
	}
	for _, p := range paths {
		loaded, loadErr := loadSettingsFile(p)
		if loadErr == nil {
			s = loaded
			break
		}
		if !errors.Is(loadErr, os.ErrNotExist) {
			return Settings{}, loadErr
		}
	}

	// Environment overlay: DRAFTMILL_BASE_URL, DRAFTMILL_SESSION_DB, ...
	if err := envconfig.Process("draftmill", &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
