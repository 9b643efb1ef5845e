package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driven"
	"github.com/custodia-labs/confclone/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.ContentGateway = (*Client)(nil)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 4096
)

// Client is a Confluence REST API client.
type Client struct {
	base        *url.URL
	httpClient  *http.Client
	authorize   func(*http.Request)
	rateLimiter *RateLimiter
}

// NewClient creates a client for the instance described by cfg.
// Bearer tokens go through an oauth2 transport; basic credentials are
// added to each request.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	base, err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	c := &Client{
		base:        base,
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond),
		authorize:   func(*http.Request) {},
	}

	if cfg.AuthMethod == domain.AuthMethodBearer {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.Token},
		)
		tc := oauth2.NewClient(ctx, ts)
		tc.Timeout = DefaultTimeout
		c.httpClient = tc
	} else {
		email, token := cfg.Email, cfg.Token
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
		c.authorize = func(req *http.Request) {
			req.SetBasicAuth(email, token)
		}
	}

	return c, nil
}

// BaseURL returns the wiki root the client talks to.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// resolve turns an API path or a _links.next reference into an absolute URL.
func (c *Client) resolve(ref string, query url.Values) (string, error) {
	var u *url.URL
	switch {
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		parsed, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("parse url %q: %w", ref, err)
		}
		u = parsed
	default:
		// Links may or may not carry the context path (e.g. /wiki).
		path := ref
		if c.base.Path != "" && strings.HasPrefix(ref, c.base.Path+"/") {
			path = strings.TrimPrefix(ref, c.base.Path)
		}
		parsed, err := url.Parse(c.base.String() + path)
		if err != nil {
			return "", fmt.Errorf("parse url %q: %w", ref, err)
		}
		u = parsed
	}

	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// do sends one request and decodes the JSON response into out.
// Statuses outside accept are returned as *APIError.
func (c *Client) do(
	ctx context.Context,
	method, ref string,
	query url.Values,
	in, out any,
	accept ...int,
) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	target, err := c.resolve(ref, query)
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Atlassian-Token", "no-check")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	logger.Debug("confluence: %s %s", method, target)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, ref, err)
	}
	defer resp.Body.Close()

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		return err
	}
	if len(accept) == 0 {
		accept = []int{http.StatusOK}
	}
	if !slices.Contains(accept, resp.StatusCode) {
		return newAPIError(resp, target)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// newAPIError builds an APIError from an unexpected response.
func newAPIError(resp *http.Response, target string) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := strings.TrimSpace(string(raw))
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		message = payload.Message
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		URL:        target,
	}
}
