// Package notify delivers push notifications through the app's
// notification gateway.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "littlejourney/1.0"
)

// Sentinel errors.
var (
	// ErrMissingCredentials is returned when the push gateway
	// environment variables are not set.
	ErrMissingCredentials = errors.New("missing push gateway credentials")

	// ErrDisabled is returned by the Disabled notifier.
	ErrDisabled = errors.New("push notifications disabled")
)

// Config holds push gateway settings.
type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// LoadConfig reads gateway configuration from environment variables.
// Returns ErrMissingCredentials if the gateway is not configured.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		BaseURL:      os.Getenv("PUSH_GATEWAY_URL"),
		TokenURL:     os.Getenv("PUSH_GATEWAY_TOKEN_URL"),
		ClientID:     os.Getenv("PUSH_GATEWAY_CLIENT_ID"),
		ClientSecret: os.Getenv("PUSH_GATEWAY_CLIENT_SECRET"),
	}
	if cfg.BaseURL == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = cfg.BaseURL + "/oauth/token"
	}
	return cfg, nil
}

// Notification is a schedule-now push payload.
type Notification struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Client is an authenticated push gateway client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a gateway client that authenticates with OAuth2
// client credentials.
func NewClient(cfg *Config) *Client {
	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	httpClient := creds.Client(context.Background())
	httpClient.Timeout = defaultTimeout
	return &Client{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
	}
}

// Schedule delivers a notification for immediate display on the user's
// device. Fire-and-forget: there is no retry policy here, callers
// decide whether a failure matters.
func (c *Client) Schedule(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/notifications", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification gateway returned %s", resp.Status)
	}
	return nil
}

// Disabled is a notifier used when no push gateway is configured.
// Every schedule request is rejected so callers report delivery
// failure instead of pretending success.
type Disabled struct{}

// Schedule always returns ErrDisabled.
func (Disabled) Schedule(ctx context.Context, n Notification) error {
	return ErrDisabled
}
