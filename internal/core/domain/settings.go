package domain

const unknownDescription = "Unknown"

// AuthMethod identifies how requests to Confluence are authenticated.
type AuthMethod string

// Available authentication methods.
const (
	// AuthMethodBasic uses an account email and API token (Confluence Cloud).
	AuthMethodBasic AuthMethod = "basic"

	// AuthMethodBearer uses a personal access token (Confluence Data Center).
	AuthMethodBearer AuthMethod = "bearer"
)

// IsValid returns true if the auth method is recognised.
func (m AuthMethod) IsValid() bool {
	switch m {
	case AuthMethodBasic, AuthMethodBearer:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m AuthMethod) String() string {
	return string(m)
}

// Description returns a human-readable description of the method.
func (m AuthMethod) Description() string {
	switch m {
	case AuthMethodBasic:
		return "Basic (email + API token)"
	case AuthMethodBearer:
		return "Bearer (personal access token)"
	default:
		return unknownDescription
	}
}

// ConfluenceSettings holds connection settings for the Confluence instance.
type ConfluenceSettings struct {
	// BaseURL is the wiki base, e.g. https://example.atlassian.net/wiki.
	BaseURL string

	// AuthMethod selects basic or bearer authentication.
	AuthMethod AuthMethod

	// Email is the account email (basic auth only).
	Email string

	// APIToken is the API token or personal access token.
	APIToken string

	// RequestsPerSecond throttles outgoing requests. Zero uses the client default.
	RequestsPerSecond float64
}

// IsConfigured returns true if enough settings are present to call the API.
func (c ConfluenceSettings) IsConfigured() bool {
	if c.BaseURL == "" || c.APIToken == "" {
		return false
	}
	if c.AuthMethod == AuthMethodBasic && c.Email == "" {
		return false
	}
	return true
}

// SourceSettings selects what gets loaded into the page tree.
type SourceSettings struct {
	SpaceKey   string
	RootPageID string
}

// TargetSettings selects where cloned pages go.
type TargetSettings struct {
	SpaceKey     string
	ParentPageID string
}

// SubstitutionSettings holds the optional title/body rewrite.
type SubstitutionSettings struct {
	Pattern     string
	Replacement string
}

// Enabled returns true when a pattern is configured.
func (s SubstitutionSettings) Enabled() bool {
	return s.Pattern != ""
}

// ServerSettings configures the web API.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// RedisURL enables redis-backed sessions when set.
	RedisURL string
}

// AppSettings is the complete application configuration.
type AppSettings struct {
	Confluence   ConfluenceSettings
	Source       SourceSettings
	Target       TargetSettings
	Substitution SubstitutionSettings
	Server       ServerSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Confluence: ConfluenceSettings{
			AuthMethod: AuthMethodBasic,
		},
		Server: ServerSettings{
			Addr: "localhost:8080",
		},
	}
}

// AllAuthMethods returns all supported auth methods.
func AllAuthMethods() []AuthMethod {
	return []AuthMethod{AuthMethodBasic, AuthMethodBearer}
}
