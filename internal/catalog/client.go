package catalog

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

// VariantInfo is the display data the cart needs to hydrate a gift line.
type VariantInfo struct {
	VariantID     int64  `json:"variant_id"`
	ProductID     int64  `json:"product_id"`
	Name          string `json:"name"`
	Image         string `json:"image"`
	OriginalPrice int64  `json:"original_price"`
}

// Client resolves variant display info from the commerce backend.
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

// NewClient builds a catalog client against the backend config.
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

// VariantDisplayInfo fetches the denormalized display data for a variant.
func (c *Client) VariantDisplayInfo(ctx context.Context, variantID int64) (*VariantInfo, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog client not configured")
	}
	if variantID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}

	url := fmt.Sprintf("%s/variants/%d", c.baseURL, variantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build variant request")
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute variant request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "variant request failed")
	}

	var apiResp struct {
		Data VariantInfo `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode variant response")
	}
	if apiResp.Data.VariantID == 0 {
		apiResp.Data.VariantID = variantID
	}

	return &apiResp.Data, nil
}
