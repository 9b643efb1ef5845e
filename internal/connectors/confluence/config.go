package confluence

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

// Config holds what the client needs to reach a Confluence instance.
type Config struct {
	// BaseURL is the wiki root, e.g. https://example.atlassian.net/wiki.
	BaseURL string

	// AuthMethod selects basic or bearer authentication.
	AuthMethod domain.AuthMethod

	// Email is the account email (basic auth only).
	Email string

	// Token is the API token or personal access token.
	Token string

	// RequestsPerSecond overrides DefaultRequestsPerSecond when positive.
	RequestsPerSecond float64
}

// ConfigFromSettings builds a client config from application settings.
func ConfigFromSettings(s domain.ConfluenceSettings) Config {
	return Config{
		BaseURL:           s.BaseURL,
		AuthMethod:        s.AuthMethod,
		Email:             s.Email,
		Token:             s.APIToken,
		RequestsPerSecond: s.RequestsPerSecond,
	}
}

// Validate checks the config and returns the parsed base URL.
func (c Config) Validate() (*url.URL, error) {
	if strings.TrimSpace(c.BaseURL) == "" {
		return nil, fmt.Errorf("%w: confluence base url is required", domain.ErrInvalidInput)
	}
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(c.BaseURL), "/"))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: invalid confluence base url %q", domain.ErrInvalidInput, c.BaseURL)
	}

	method := c.AuthMethod
	if method == "" {
		method = domain.AuthMethodBasic
	}
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: unknown auth method %q", domain.ErrInvalidInput, c.AuthMethod)
	}
	if c.Token == "" {
		return nil, fmt.Errorf("%w: api token is not set", domain.ErrAuthRequired)
	}
	if method == domain.AuthMethodBasic && c.Email == "" {
		return nil, fmt.Errorf("%w: email is required for basic auth", domain.ErrAuthRequired)
	}
	return base, nil
}
