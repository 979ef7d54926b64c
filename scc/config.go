package scc

import (
	"encoding/base64"
	"time"
)

// DefaultURL is the public SCC endpoint used by NewClient.
const DefaultURL = "https://scc.suse.com"

// Config holds the connection parameters of a Client.
//
// A Client owns exactly one Config. It may be adjusted after construction
// through Client.Config, but not while calls are in flight.
type Config struct {
	url         string
	credentials string
	proxy       string
	timeout     time.Duration
	userAgent   string
}

func newConfig(url, username, password string) *Config {
	return &Config{
		url:         url,
		credentials: encodeCredentials(username, password),
	}
}

// encodeCredentials returns the Basic auth token for username and password.
func encodeCredentials(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}

// BaseURL returns the SCC base URL.
func (c *Config) BaseURL() string { return c.url }

// SetURL replaces the SCC base URL.
func (c *Config) SetURL(url string) { c.url = url }

// Credentials returns the base64 encoded "username:password" pair.
func (c *Config) Credentials() string { return c.credentials }

// Proxy returns the configured proxy URL, empty when the environment proxy is used.
func (c *Config) Proxy() string { return c.proxy }

// SetProxy sets an HTTP(S) proxy URL. An empty string restores the environment proxy.
func (c *Config) SetProxy(proxy string) { c.proxy = proxy }

// Timeout returns the per-call timeout. Zero means no limit beyond the transport's.
func (c *Config) Timeout() time.Duration { return c.timeout }

// SetTimeout bounds every subsequent call to d.
func (c *Config) SetTimeout(d time.Duration) { c.timeout = d }

// UserAgent returns the User-Agent header value sent with each request.
func (c *Config) UserAgent() string { return c.userAgent }

// SetUserAgent sets the User-Agent header value.
func (c *Config) SetUserAgent(ua string) { c.userAgent = ua }
