package scc

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	logger     zerolog.Logger
	httpClient *http.Client
	timeout    time.Duration
	proxy      string
	userAgent  string
}

func defaultOptions() clientOptions {
	return clientOptions{
		logger: zerolog.Nop(),
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithTimeout bounds every call made by the client.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout >= 0 {
			o.timeout = timeout
		}
	}
}

// WithProxy routes requests through the given HTTP(S) proxy URL.
// It has no effect together with WithHTTPClient.
func WithProxy(proxy string) Option {
	return func(o *clientOptions) {
		o.proxy = proxy
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithHTTPClient makes the client use hc as its transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}
