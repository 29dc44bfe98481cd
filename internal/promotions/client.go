package promotions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SoiBeTiiii/datn-sub000/pkg/config"
	pkgerrors "github.com/SoiBeTiiii/datn-sub000/pkg/errors"
)

const errorBodyReadLimit int64 = 1024

// Client fetches the active promotion map from the commerce backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds a promotions client against the backend config.
func NewClient(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("backend base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// FetchActive returns the current promotion map keyed by variant/product.
func (c *Client) FetchActive(ctx context.Context) (map[Key]Promotion, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "promotions client not configured")
	}

	url := c.baseURL + "/promotions/active"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build promotions request")
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute promotions request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "promotions request failed")
	}

	var apiResp struct {
		Data map[string]struct {
			Type       Type       `json:"type"`
			Conditions Conditions `json:"conditions"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode promotions response")
	}

	active := make(map[Key]Promotion, len(apiResp.Data))
	for rawKey, promo := range apiResp.Data {
		key := Key(strings.TrimSpace(rawKey))
		if key == "" {
			continue
		}
		active[key] = Promotion{
			Key:        key,
			Type:       promo.Type,
			Conditions: promo.Conditions,
		}
	}

	return active, nil
}
