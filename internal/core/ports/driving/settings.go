package driving

import "github.com/custodia-labs/confclone/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the current settings, defaults filled in.
	Get() (*domain.AppSettings, error)

	// Set stores a single setting by key (e.g. "target.space_key").
	Set(key, value string) error

	// Keys returns the settable keys.
	Keys() []string
}
