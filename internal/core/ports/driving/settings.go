package driving

import "github.com/custodia-labs/reqsnake/internal/core/domain"

// SettingsService manages project settings stored in reqsnake.toml.
type SettingsService interface {
	// Get returns the current settings with defaults applied.
	Get() (*domain.Settings, error)

	// Save persists every setting.
	Save(settings *domain.Settings) error

	// Set parses value for a known key and persists it.
	Set(key, value string) error

	// Unset removes a key so its default applies again.
	Unset(key string) error

	// Keys returns every recognised key in sorted order.
	Keys() []string

	// Lookup returns the effective value of a key as text.
	Lookup(key string) (string, error)

	// GetDefaults returns the default settings.
	GetDefaults() domain.Settings

	// Path returns the settings file location.
	Path() string
}
