package wishlist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SoiBeTiiii/datn-sub000/pkg/config"
	pkgerrors "github.com/SoiBeTiiii/datn-sub000/pkg/errors"
)

const errorBodyReadLimit int64 = 1024

// Backend is the remote wishlist API the cache synchronizes with.
type Backend interface {
	FetchWishlist(ctx context.Context, userKey string) ([]Entry, error)
	AddEntry(ctx context.Context, userKey, slug string) error
	RemoveEntry(ctx context.Context, userKey, slug string) error
}

// HTTPBackend talks to the commerce backend's wishlist endpoints.
type HTTPBackend struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// BackendOption configures optional backend behavior.
type BackendOption func(*HTTPBackend)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) BackendOption {
	return func(b *HTTPBackend) {
		if client != nil {
			b.httpClient = client
		}
	}
}

// NewHTTPBackend builds the wishlist backend client.
func NewHTTPBackend(cfg config.BackendConfig, opts ...BackendOption) (*HTTPBackend, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("backend base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	backend := &HTTPBackend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(backend)
		}
	}

	return backend, nil
}

// FetchWishlist returns the user's full wishlist, tolerating every envelope
// shape the backend is known to produce.
func (b *HTTPBackend) FetchWishlist(ctx context.Context, userKey string) ([]Entry, error) {
	endpoint := fmt.Sprintf("%s/wishlists?user=%s", b.baseURL, url.QueryEscape(userKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build wishlist request")
	}
	b.setHeaders(req)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute wishlist request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "wishlist requires authentication")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "wishlist request failed")
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read wishlist response")
	}

	return normalizeEntries(raw), nil
}

// AddEntry registers a wishlist entry. A conflict response means the entry
// already exists upstream and is treated as success.
func (b *HTTPBackend) AddEntry(ctx context.Context, userKey, slug string) error {
	payload, err := json.Marshal(map[string]string{"slug": slug, "user": userKey})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal wishlist add")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/wishlists", bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build wishlist add request")
	}
	req.Header.Set("Content-Type", "application/json")
	b.setHeaders(req)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute wishlist add request")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusConflict:
		// already wishlisted upstream; the optimistic local state is correct
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "wishlist requires authentication")
	case resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "wishlist add failed")
	}
	return nil
}

// RemoveEntry deletes a wishlist entry. A missing entry upstream is treated
// as success.
func (b *HTTPBackend) RemoveEntry(ctx context.Context, userKey, slug string) error {
	endpoint := fmt.Sprintf("%s/wishlists/%s?user=%s", b.baseURL, url.PathEscape(slug), url.QueryEscape(userKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build wishlist remove request")
	}
	b.setHeaders(req)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute wishlist remove request")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "wishlist requires authentication")
	case resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "wishlist remove failed")
	}
	return nil
}

func (b *HTTPBackend) setHeaders(req *http.Request) {
	if b.apiKey != "" {
		req.Header.Set("X-Api-Key", b.apiKey)
	}
}
