// Package quran is the HTTP client for the public content APIs
// (api.quran.com v4 and equran.id v2).
package quran

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

	"github.com/MrSnakeDoc/myquran/internal/domain"
	"github.com/MrSnakeDoc/myquran/internal/logger"
	"github.com/MrSnakeDoc/myquran/internal/retry"
	"github.com/MrSnakeDoc/myquran/internal/utils"
)

const (
	DefaultQuranBaseURL  = "https://api.quran.com/api/v4"
	DefaultEquranBaseURL = "https://equran.id/api/v2"
	DefaultAudioBaseURL  = "https://verses.quran.com/"
	DefaultUserAgent     = "myquran/1.0"
	defaultMaxBodyBytes  = 8 << 20
)

// Options configures the client. Zero values fall back to the defaults.
type Options struct {
	QuranBaseURL  string
	EquranBaseURL string
	AudioBaseURL  string
	UserAgent     string
	Timeout       time.Duration
	MaxBodyBytes  int64
	Retry         retry.Policy
	RatePerSecond float64 // per upstream host, 0 = unlimited
	RateBurst     int
	CacheTTL      time.Duration // 0 disables the response cache
}

// Client fetches and decodes upstream content.
type Client struct {
	http      *http.Client
	quranURL  string
	equranURL string
	audioURL  string
	userAgent string
	maxBytes  int64
	policy    retry.Policy
	limiter   *hostLimiter
	cache     *responseCache
	logger    logger.Logger
}

// New builds a client from opts.
func New(opts Options, log logger.Logger) *Client {
	if opts.QuranBaseURL == "" {
		opts.QuranBaseURL = DefaultQuranBaseURL
	}
	if opts.EquranBaseURL == "" {
		opts.EquranBaseURL = DefaultEquranBaseURL
	}
	if opts.AudioBaseURL == "" {
		opts.AudioBaseURL = DefaultAudioBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry.MaxAttempts = 3
	}
	if opts.Retry.MaxWait <= 0 {
		opts.Retry.MaxWait = 2 * time.Second
	}

	return &Client{
		http: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		quranURL:  strings.TrimRight(opts.QuranBaseURL, "/"),
		equranURL: strings.TrimRight(opts.EquranBaseURL, "/"),
		audioURL:  strings.TrimRight(opts.AudioBaseURL, "/") + "/",
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBodyBytes,
		policy:    opts.Retry,
		limiter:   newHostLimiter(opts.RatePerSecond, opts.RateBurst),
		cache:     newResponseCache(opts.CacheTTL),
		logger:    log.Named("quran"),
	}
}

// CachedResponses returns the number of bodies held in the response cache.
func (c *Client) CachedResponses() int {
	return c.cache.count()
}

// FlushCache drops every cached response.
func (c *Client) FlushCache() {
	c.cache.flush()
}

// statusError is a non-2xx upstream response.
type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.code, e.url)
}

// getJSON fetches base+path?query with retries and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, base, path string, query url.Values, out any) error {
	rawURL := base + path
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	body, ok := c.cache.get(rawURL)
	if !ok {
		var err error
		body, err = c.fetch(ctx, rawURL)
		if err != nil {
			return err
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s: %v", domain.ErrNetwork, rawURL, err)
	}
	if !ok {
		c.cache.set(rawURL, body)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: bad url %q: %v", domain.ErrInvalidInput, rawURL, err)
	}

	var body []byte
	onRetry := func(a retry.Attempt) {
		c.logger.Warn("upstream request failed, retrying",
			logger.String("url", rawURL),
			logger.Int("attempt", a.Number),
			logger.Duration("wait", a.Wait),
			logger.Error(a.Err))
	}

	attempts, err := retry.Do(ctx, c.policy, onRetry, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx, parsed.Host); err != nil {
			return retry.Permanent(err)
		}
		b, err := c.do(ctx, rawURL)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err == nil {
		return body, nil
	}

	var se *statusError
	switch {
	case errors.As(err, &se) && se.code == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, rawURL)
	case errors.Is(err, context.Canceled):
		return nil, err
	default:
		c.logger.Error("upstream request failed",
			logger.String("url", rawURL),
			logger.Int("attempts", attempts),
			logger.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, retry.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		se := &statusError{code: resp.StatusCode, url: rawURL}
		if retryableStatus(resp.StatusCode) {
			return nil, se
		}
		return nil, retry.Permanent(se)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, retry.Permanent(fmt.Errorf("response from %s exceeds %d bytes", rawURL, c.maxBytes))
	}
	return body, nil
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// AudioURL resolves a recitation path against the audio host.
// Absolute URLs are returned unchanged.
func (c *Client) AudioURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if strings.HasPrefix(path, "//") {
		return "https:" + path
	}
	return c.audioURL + strings.TrimLeft(path, "/")
}
