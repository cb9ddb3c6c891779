package halclient

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/waypost-dev/waypost/pkg/cache"
	"github.com/waypost-dev/waypost/pkg/errors"
	"github.com/waypost-dev/waypost/pkg/hal"
	"github.com/waypost-dev/waypost/pkg/httputil"
	"github.com/waypost-dev/waypost/pkg/traverson"
)

const (
	// httpTimeout bounds a single request attempt.
	httpTimeout = 10 * time.Second

	// acceptHAL is sent on every request; plain JSON is accepted as a
	// fallback since many APIs serve HAL under application/json.
	acceptHAL = "application/hal+json, application/json;q=0.9"
)

// Client is an HTTP link resolver. It fetches link targets with HAL accept
// headers, maps response statuses onto structured errors, retries transient
// failures with exponential backoff, and optionally caches bodies by URL.
type Client struct {
	http      *http.Client
	headers   map[string]string
	userAgent string
	cache     cache.Cache
	cacheTTL  time.Duration
	logger    *log.Logger
	attempts  int
	delay     time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The default has a 10
// second timeout.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithHeaders adds a set of headers sent on every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithCache caches response bodies keyed by URL for ttl. A ttl of zero
// caches without expiry.
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

// WithLogger sets the logger for request diagnostics. By default nothing is
// logged.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRetry overrides the retry policy. The default is 3 attempts starting
// at 1 second, doubling each retry.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

// New creates a Client ready to resolve links.
func New(opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: httpTimeout},
		headers:  make(map[string]string),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return c
}

// ResolveLink fetches the link target and returns the response body.
// Responses are served from the cache when one is configured.
func (c *Client) ResolveLink(ctx context.Context, link hal.Link) ([]byte, error) {
	url := link.Href
	key := cache.Hash([]byte(url))

	if c.cache != nil {
		if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
			c.logger.Debug("cache hit", "url", url)
			return data, nil
		}
	}

	var body []byte
	err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
		data, err := c.fetch(ctx, url)
		if err != nil {
			return err
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil {
			c.logger.Warn("cannot cache response", "url", url, "error", err)
		}
	}
	return body, nil
}

// Get fetches url and parses the response as a HAL document.
func (c *Client) Get(ctx context.Context, url string) (hal.Representation, error) {
	body, err := c.ResolveLink(ctx, hal.Self(url))
	if err != nil {
		return hal.Representation{}, err
	}
	return hal.Parse(body)
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidURL, err, "cannot build request for %q", url)
	}
	req.Header.Set("Accept", acceptHAL)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug("fetching", "url", url)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "request to %q failed", url)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, url); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "cannot read response from %q", url)}
	}
	return data, nil
}

// checkStatus maps a response status onto the error taxonomy: 404 is
// NOT_FOUND, 429 is RATE_LIMITED, 5xx are retryable NETWORK errors, every
// other non-2xx is HTTP_STATUS.
func checkStatus(resp *http.Response, url string) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "resource %q not found", url)
	case code == http.StatusTooManyRequests:
		limited := &errors.RateLimitedError{Message: "rate limited by " + url}
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			limited.RetryAfter = secs
		}
		return &httputil.RetryableError{
			Err: errors.Wrap(errors.ErrCodeRateLimited, limited, "rate limited by %q", url),
		}
	case code >= 500:
		return &httputil.RetryableError{
			Err: errors.New(errors.ErrCodeNetwork, "server error %d from %q", code, url),
		}
	default:
		return errors.Wrap(errors.ErrCodeHTTPStatus, &errors.StatusError{StatusCode: code, URL: url},
			"unexpected response from %q", url)
	}
}

// Ensure Client implements traverson.LinkResolver.
var _ traverson.LinkResolver = (*Client)(nil)
