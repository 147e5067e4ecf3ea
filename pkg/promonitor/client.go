package promonitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/promonitor/storefront/pkg/errors"
)

// DefaultBaseURL is the storefront mirrored by the catalog sync.
const DefaultBaseURL = "https://promonitor.no"

const (
	productsPath         = "products.json?limit=250"
	featuredPath         = "collections/frontpage/products.json?limit=50"
	collectionPathFormat = "collections/%s/products.json?limit=250"
	defaultTimeout       = 30 * time.Second
)

const responseBodyReadLimit int64 = 1024

var errBaseURLRequired = errors.New("promonitor base url is required")

// Client reads the public JSON product listings of the promonitor.no storefront.
type Client struct {
	httpClient *http.Client
	baseURL    string
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

// NewClient builds a feed client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return client, nil
}

// BaseURL is the origin relative image paths resolve against.
func (c *Client) BaseURL() string {
	if c == nil {
		return DefaultBaseURL
	}
	return c.baseURL
}

// Products fetches the full product listing.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	return c.fetch(ctx, productsPath)
}

// Featured fetches the frontpage collection.
func (c *Client) Featured(ctx context.Context) ([]Product, error) {
	return c.fetch(ctx, featuredPath)
}

// CollectionProducts fetches one collection by handle.
func (c *Client) CollectionProducts(ctx context.Context, handle string) ([]Product, error) {
	trimmed := strings.TrimSpace(handle)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collection handle is required")
	}
	return c.fetch(ctx, fmt.Sprintf(collectionPathFormat, url.PathEscape(trimmed)))
}

func (c *Client) fetch(ctx context.Context, path string) ([]Product, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "promonitor client not configured")
	}

	target := c.buildURL(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build feed request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute feed request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "feed request failed")
	}

	var payload Listing
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode feed response")
	}
	if payload.Products == nil {
		return []Product{}, nil
	}
	return payload.Products, nil
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
}
