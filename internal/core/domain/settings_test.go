package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthMethod_IsValid(t *testing.T) {
	assert.True(t, AuthMethodBasic.IsValid())
	assert.True(t, AuthMethodBearer.IsValid())
	assert.False(t, AuthMethod("oauth").IsValid())
	assert.False(t, AuthMethod("").IsValid())
}

func TestAuthMethod_Description(t *testing.T) {
	assert.Equal(t, "Basic (email + API token)", AuthMethodBasic.Description())
	assert.Equal(t, "Bearer (personal access token)", AuthMethodBearer.Description())
	assert.Equal(t, "Unknown", AuthMethod("x").Description())
}

func TestConfluenceSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings ConfluenceSettings
		want     bool
	}{
		{"empty", ConfluenceSettings{}, false},
		{"basic without email", ConfluenceSettings{BaseURL: "https://x", AuthMethod: AuthMethodBasic, APIToken: "t"}, false},
		{"basic complete", ConfluenceSettings{BaseURL: "https://x", AuthMethod: AuthMethodBasic, Email: "a@b", APIToken: "t"}, true},
		{"bearer without email", ConfluenceSettings{BaseURL: "https://x", AuthMethod: AuthMethodBearer, APIToken: "t"}, true},
		{"no token", ConfluenceSettings{BaseURL: "https://x", AuthMethod: AuthMethodBearer}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.IsConfigured())
		})
	}
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()
	assert.Equal(t, AuthMethodBasic, s.Confluence.AuthMethod)
	assert.Equal(t, "localhost:8080", s.Server.Addr)
	assert.False(t, s.Substitution.Enabled())
}
