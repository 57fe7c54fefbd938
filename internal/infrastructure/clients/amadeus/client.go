package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/triporia/travelsearch/backend/internal/domain/providers"
	"github.com/triporia/travelsearch/backend/pkg/config"
	"github.com/triporia/travelsearch/backend/pkg/retry"
)

const (
	tokenPath          = "/v1/security/oauth2/token"
	tokenCacheKey      = "amadeus:token:v1"
	tokenExpirySlack   = 60 * time.Second
	defaultHTTPTimeout = 8 * time.Second
)

// Client is the shared Amadeus API client. It owns OAuth2 client-credentials
// token acquisition and authorized GETs; the hotel and flight adapters share
// one instance so the token is fetched once per expiry, not per search.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client
	cache        providers.CacheProvider

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a new Amadeus client.
func NewClient(cfg *config.ProvidersConfig, cache providers.CacheProvider) *Client {
	return NewClientWithOptions(cfg.AmadeusClientID, cfg.AmadeusClientSecret, cfg.AmadeusBaseURL, cache, nil)
}

// NewClientWithOptions allows overriding base URL and HTTP client (used for tests).
func NewClientWithOptions(clientID, clientSecret, baseURL string, cache providers.CacheProvider, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   httpClient,
		cache:        cache,
	}
}

// GetJSON performs an authorized GET against path and decodes the response.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build amadeus request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("amadeus request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("amadeus request returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode amadeus response: %w", err)
	}
	return nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns a live token, checking the in-process copy, then the
// shared cache, then the token endpoint.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if c.token != "" && now.Before(c.tokenExpiry) {
		return c.token, nil
	}

	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, tokenCacheKey); err == nil && len(cached) > 0 {
			var tok tokenResponse
			if err := json.Unmarshal(cached, &tok); err == nil && tok.AccessToken != "" {
				c.token = tok.AccessToken
				c.tokenExpiry = now.Add(time.Duration(tok.ExpiresIn)*time.Second - tokenExpirySlack)
				if now.Before(c.tokenExpiry) {
					return c.token, nil
				}
			}
		}
	}

	var tok tokenResponse
	cfg := retry.Config{
		MaxAttempts:     3,
		InitialDelay:    200 * time.Millisecond,
		MaxDelay:        2 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 10 * time.Second,
	}
	err := retry.Do(ctx, cfg, func() error {
		return c.fetchToken(ctx, &tok)
	})
	if err != nil {
		return "", err
	}

	c.token = tok.AccessToken
	c.tokenExpiry = now.Add(time.Duration(tok.ExpiresIn)*time.Second - tokenExpirySlack)

	if c.cache != nil {
		if payload, err := json.Marshal(tok); err == nil {
			ttl := tok.ExpiresIn - int(tokenExpirySlack.Seconds())
			if ttl > 0 {
				_ = c.cache.Set(ctx, tokenCacheKey, payload, ttl)
			}
		}
	}

	return c.token, nil
}

func (c *Client) fetchToken(ctx context.Context, out *tokenResponse) error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("token request returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}
	if out.AccessToken == "" {
		return fmt.Errorf("token response missing access_token")
	}
	return nil
}
