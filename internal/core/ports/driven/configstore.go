package driven

import "context"

// ConfigStore provides access to application configuration.
// Keys use dot notation matching the TOML table layout, e.g. "confluence.base_url".
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" if missing or not a string.
	GetString(key string) string

	// GetFloat retrieves a numeric value as float64, or 0.
	GetFloat(key string) float64

	// Set stores a configuration value and persists immediately.
	Set(key string, value any) error

	// Load reads configuration from storage.
	Load() error

	// Watch reloads the configuration whenever the backing file changes,
	// calling onChange after each reload. It blocks until ctx is done.
	Watch(ctx context.Context, onChange func()) error

	// Path returns the configuration file path.
	Path() string
}
