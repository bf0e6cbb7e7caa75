package driving

import "github.com/custodia-labs/empire-ledger/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get resolves settings from defaults, the config file and the
	// environment, in that order of precedence.
	Get() (domain.Settings, error)

	// Set validates and persists one setting given as text.
	Set(key, value string) error

	// Reset removes a setting from the config file so its default applies.
	Reset(key string) error

	// List describes every known setting.
	List() ([]SettingInfo, error)

	// GetDefaults returns the built-in settings.
	GetDefaults() domain.Settings

	// Path returns the config file path.
	Path() string
}

// SettingInfo describes one setting for display.
type SettingInfo struct {
	// Key is the dotted config key.
	Key string

	// Value is the effective value as text.
	Value string

	// Default is the built-in value as text.
	Default string

	// Source is where the effective value came from: "default", "file" or "env".
	Source string
}
