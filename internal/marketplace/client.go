package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// OrderFetcher loads an order from the platform on behalf of one store.
type OrderFetcher interface {
	FetchOrder(ctx context.Context, storeID, accessToken, orderID string) (*Order, error)
}

// Client is the platform REST client. The access token of the store is
// attached through an oauth2 static token source.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	transport http.RoundTripper
}

type ClientOption func(*Client)

// WithTransport overrides the base transport, mainly for tests.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) { c.transport = rt }
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

func NewClient(baseURL, userAgent string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		timeout:   15 * time.Second,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ OrderFetcher = (*Client)(nil)

// platformHeaders adds the headers the platform requires on every call.
// It also mirrors the bearer token into the legacy Authentication header.
type platformHeaders struct {
	userAgent string
	base      http.RoundTripper
}

func (t platformHeaders) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	r.Header.Set("Content-Type", "application/json")
	if auth := r.Header.Get("Authorization"); auth != "" {
		r.Header.Set("Authentication", auth)
	}
	return t.base.RoundTrip(r)
}

func (c *Client) httpClient(ctx context.Context, accessToken string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{
		Transport: platformHeaders{userAgent: c.userAgent, base: c.transport},
	})
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "bearer"}))
	client.Timeout = c.timeout
	return client
}

func (c *Client) FetchOrder(ctx context.Context, storeID, accessToken, orderID string) (*Order, error) {
	if storeID == "" || orderID == "" {
		return nil, fmt.Errorf("store id and order id are required")
	}
	endpoint := fmt.Sprintf("%s/%s/orders/%s", c.baseURL, url.PathEscape(storeID), url.PathEscape(orderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}

	resp, err := c.httpClient(ctx, accessToken).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order %s: %w", orderID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("order %s: platform returned %d: %s", orderID, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order %s: %w", orderID, err)
	}
	return &order, nil
}
