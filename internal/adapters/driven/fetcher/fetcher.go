// Package fetcher provides the HTTP page fetcher used by the website
// normaliser. Requests go through colly and are paced by a token bucket.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/custodia-labs/bizassist/internal/core/domain"
	"github.com/custodia-labs/bizassist/internal/core/ports/driven"
	"github.com/custodia-labs/bizassist/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// ErrRateLimited is returned when the server answers 429.
var ErrRateLimited = errors.New("rate limited by server")

// Config holds fetcher settings.
type Config struct {
	// Timeout bounds a single request.
	Timeout time.Duration
	// RequestsPerSecond paces requests across the whole crawl.
	RequestsPerSecond float64
	// UserAgent is sent with every request.
	UserAgent string
}

// Fetcher retrieves pages over HTTP.
type Fetcher struct {
	timeout   time.Duration
	userAgent string
	limiter   *RateLimiter
}

// New creates a fetcher. Zero config values fall back to crawl defaults.
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultCrawlTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = domain.DefaultUserAgent
	}
	return &Fetcher{
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		limiter:   NewRateLimiter(cfg.RequestsPerSecond),
	}
}

// Fetch retrieves a single page. Redirects are followed; Page.URL is the
// final location. Any status outside 2xx is an error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*driven.Page, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	c := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(f.timeout)

	var (
		page     *driven.Page
		fetchErr error
	)

	c.OnResponse(func(r *colly.Response) {
		if r.StatusCode == http.StatusTooManyRequests {
			f.limiter.RecordRateLimitError(retryAfter(r.Headers))
			fetchErr = fmt.Errorf("fetch %s: %w", rawURL, ErrRateLimited)
			return
		}
		if r.StatusCode < 200 || r.StatusCode > 299 {
			fetchErr = fmt.Errorf("fetch %s: unexpected status %d", rawURL, r.StatusCode)
			return
		}
		page = &driven.Page{
			URL:         r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
			Body:        r.Body,
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		if fetchErr == nil {
			fetchErr = fmt.Errorf("fetch %s: %w", rawURL, err)
		}
	})

	logger.Debug("Fetching %s", rawURL)
	if err := c.Visit(rawURL); err != nil && fetchErr == nil {
		fetchErr = fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if page == nil {
		return nil, fmt.Errorf("fetch %s: no response", rawURL)
	}
	return page, nil
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(h *http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After")))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
