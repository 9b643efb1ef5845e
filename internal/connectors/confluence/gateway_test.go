package confluence

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

func TestGateway_MissingCredentials(t *testing.T) {
	g := NewGateway(func() (Config, error) {
		return Config{BaseURL: "https://example.atlassian.net/wiki"}, nil
	})

	_, err := g.GetPage(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	err = g.ApplyRestrictions(context.Background(), "1", domain.RestrictionRead, domain.Principals{})
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestGateway_RebuildsOnConfigChange(t *testing.T) {
	var users []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, _ := r.BasicAuth()
		users = append(users, user)
		writeJSON(w, http.StatusOK, map[string]any{"id": "1", "title": "Home"})
	}))
	t.Cleanup(srv.Close)

	cfg := Config{
		BaseURL:           srv.URL + "/wiki",
		AuthMethod:        domain.AuthMethodBasic,
		Email:             "first@example.com",
		Token:             "secret",
		RequestsPerSecond: 1000,
	}
	g := NewGateway(func() (Config, error) { return cfg, nil })

	_, err := g.GetPage(context.Background(), "1")
	require.NoError(t, err)
	first, err := g.current()
	require.NoError(t, err)

	_, err = g.GetPage(context.Background(), "1")
	require.NoError(t, err)
	same, err := g.current()
	require.NoError(t, err)
	assert.Same(t, first, same)

	cfg.Email = "second@example.com"
	page, err := g.GetPage(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Home", page.Title)

	rebuilt, err := g.current()
	require.NoError(t, err)
	assert.NotSame(t, first, rebuilt)
	assert.Equal(t, []string{"first@example.com", "first@example.com", "second@example.com"}, users)
}

func TestGateway_SourceError(t *testing.T) {
	g := NewGateway(func() (Config, error) { return Config{}, assert.AnError })

	_, err := g.ListPagesInSpace(context.Background(), "OPS")
	assert.ErrorIs(t, err, assert.AnError)
}
