package scc

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// SCC organization endpoints
const (
	productsPath      = "/connect/organizations/products/unscoped"
	repositoriesPath  = "/connect/organizations/repositories"
	subscriptionsPath = "/connect/organizations/subscriptions"
)

// Client represents an SCC API client
type Client struct {
	config *Config
	http   *resty.Client
	logger zerolog.Logger
}

// NewClient creates a client for scc.suse.com
func NewClient(username, password string, opts ...Option) *Client {
	return NewClientWithURL(DefaultURL, username, password, opts...)
}

// NewClientWithURL creates a client for the SCC instance at baseURL
func NewClientWithURL(baseURL, username, password string, opts ...Option) *Client {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	cfg := newConfig(baseURL, username, password)
	cfg.SetTimeout(options.timeout)
	cfg.SetProxy(options.proxy)
	cfg.SetUserAgent(options.userAgent)

	c := &Client{
		config: cfg,
		logger: options.logger,
	}

	if options.httpClient != nil {
		c.http = resty.NewWithClient(options.httpClient)
	} else {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = c.proxyURL
		c.http = resty.New().SetTransport(transport)
	}
	c.http.SetLogger(restyLogger{logger: options.logger})

	return c
}

// Config gives direct access to the live configuration.
func (c *Client) Config() *Config {
	return c.config
}

// proxyURL picks the proxy per request so Config changes apply to later calls.
func (c *Client) proxyURL(req *http.Request) (*url.URL, error) {
	if p := c.config.Proxy(); p != "" {
		return url.Parse(p)
	}
	return http.ProxyFromEnvironment(req)
}

// ListProducts retrieves every product known to SCC
//
// GET /connect/organizations/products/unscoped
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	return getList[Product](ctx, c, productsPath)
}

// ListRepositories retrieves the repositories available to the organization
//
// GET /connect/organizations/repositories
func (c *Client) ListRepositories(ctx context.Context) ([]Repository, error) {
	return getList[Repository](ctx, c, repositoriesPath)
}

// ListSubscriptions retrieves the subscriptions of the organization
//
// GET /connect/organizations/subscriptions
func (c *Client) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	return getList[Subscription](ctx, c, subscriptionsPath)
}
