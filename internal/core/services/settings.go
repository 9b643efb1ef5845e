package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driven"
	"github.com/custodia-labs/confclone/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyBaseURL           = "confluence.base_url"
	KeyAuthMethod        = "confluence.auth_method"
	KeyEmail             = "confluence.email"
	KeyAPIToken          = "confluence.api_token"
	KeyRequestsPerSecond = "confluence.requests_per_second"
	KeySourceSpace       = "source.space_key"
	KeySourceRoot        = "source.root_page_id"
	KeyTargetSpace       = "target.space_key"
	KeyTargetParent      = "target.parent_page_id"
	KeyPattern           = "substitution.pattern"
	KeyReplacement       = "substitution.replacement"
	KeyServerAddr        = "server.addr"
	KeyRedisURL          = "server.redis_url"
)

// settableKeys lists every key accepted by Set.
var settableKeys = map[string]bool{
	KeyBaseURL: true, KeyAuthMethod: true, KeyEmail: true, KeyAPIToken: true,
	KeyRequestsPerSecond: true, KeySourceSpace: true, KeySourceRoot: true,
	KeyTargetSpace: true, KeyTargetParent: true, KeyPattern: true,
	KeyReplacement: true, KeyServerAddr: true, KeyRedisURL: true,
}

// SettingsService manages application settings backed by a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Confluence: domain.ConfluenceSettings{
			BaseURL:           strings.TrimRight(s.configStore.GetString(KeyBaseURL), "/"),
			AuthMethod:        s.getAuthMethod(defaults.Confluence.AuthMethod),
			Email:             s.configStore.GetString(KeyEmail),
			APIToken:          s.configStore.GetString(KeyAPIToken),
			RequestsPerSecond: s.configStore.GetFloat(KeyRequestsPerSecond),
		},
		Source: domain.SourceSettings{
			SpaceKey:   s.configStore.GetString(KeySourceSpace),
			RootPageID: s.configStore.GetString(KeySourceRoot),
		},
		Target: domain.TargetSettings{
			SpaceKey:     s.configStore.GetString(KeyTargetSpace),
			ParentPageID: s.configStore.GetString(KeyTargetParent),
		},
		Substitution: domain.SubstitutionSettings{
			Pattern:     s.configStore.GetString(KeyPattern),
			Replacement: s.configStore.GetString(KeyReplacement),
		},
		Server: domain.ServerSettings{
			Addr:     s.getString(KeyServerAddr, defaults.Server.Addr),
			RedisURL: s.configStore.GetString(KeyRedisURL),
		},
	}

	return settings, nil
}

// Set stores a single setting after checking the key and value.
func (s *SettingsService) Set(key, value string) error {
	if !settableKeys[key] {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	switch key {
	case KeyAuthMethod:
		if !domain.AuthMethod(value).IsValid() {
			return fmt.Errorf("%w: auth method must be one of basic, bearer", domain.ErrInvalidInput)
		}
	case KeyRequestsPerSecond:
		rps, err := strconv.ParseFloat(value, 64)
		if err != nil || rps < 0 {
			return fmt.Errorf("%w: requests per second must be a non-negative number", domain.ErrInvalidInput)
		}
		return s.configStore.Set(key, rps)
	case KeyReplacement:
		if err := ValidateReplacement(value); err != nil {
			return err
		}
	}

	return s.configStore.Set(key, value)
}

// Keys returns the settable keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// getString gets a string value with a default fallback.
func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

// getAuthMethod gets the auth method with validation.
func (s *SettingsService) getAuthMethod(defaultVal domain.AuthMethod) domain.AuthMethod {
	method := domain.AuthMethod(s.configStore.GetString(KeyAuthMethod))
	if method.IsValid() {
		return method
	}
	return defaultVal
}
