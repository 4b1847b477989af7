package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Client resolves GitHub usernames to numeric account ids.
type Client struct {
	auth       AuthProvider
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// ClientConfig configures a Client. Zero-value fields fall back to the public
// API endpoint, anonymous auth, and a 30 second HTTP timeout.
type ClientConfig struct {
	Auth       AuthProvider
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient constructs a Client.
func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	auth := cfg.Auth
	if auth == nil {
		auth = AnonymousAuth{}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		auth:       auth,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "github_client").Logger(),
	}
}

// UserID looks up the numeric account id for a username. The second return
// value is false when no such user exists.
func (c *Client) UserID(ctx context.Context, username string) (int64, bool, error) {
	endpoint := fmt.Sprintf("%s/users/%s", c.baseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, false, err
	}

	headers, err := c.auth.Headers(ctx)
	if err != nil {
		return 0, false, err
	}
	req.Header = headers

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("github user lookup failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, false, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return 0, false, fmt.Errorf("github user lookup returned status %d", resp.StatusCode)
	}

	var payload struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, false, fmt.Errorf("failed to decode github user response: %w", err)
	}

	c.logger.Debug().Str("username", username).Int64("github_id", payload.ID).Msg("resolved github user")

	return payload.ID, true, nil
}
