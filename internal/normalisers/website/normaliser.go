// Package website provides the website normaliser: a bounded, same-origin,
// breadth-first crawl that turns page text into records.
package website

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/bizassist/internal/core/domain"
	"github.com/custodia-labs/bizassist/internal/core/ports/driven"
	"github.com/custodia-labs/bizassist/internal/logger"
	"github.com/custodia-labs/bizassist/internal/postprocessors/segmenter"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// DefaultMaxPages is the default page budget of a crawl.
const DefaultMaxPages = domain.DefaultMaxPages

// Normaliser crawls websites through an injected Fetcher.
// It holds no per-crawl state and is safe for concurrent crawls.
type Normaliser struct {
	fetcher   driven.Fetcher
	segmenter *segmenter.Processor
	maxPages  int
	mode      domain.ExtractionMode
}

// Option configures the website normaliser.
type Option func(*Normaliser)

// WithMaxPages sets the default page budget used by Normalise.
func WithMaxPages(n int) Option {
	return func(w *Normaliser) {
		if n > 0 {
			w.maxPages = n
		}
	}
}

// WithExtractionMode selects how page text is extracted.
func WithExtractionMode(mode domain.ExtractionMode) Option {
	return func(w *Normaliser) {
		if mode.IsValid() {
			w.mode = mode
		}
	}
}

// New creates a website normaliser that fetches pages with fetcher.
func New(fetcher driven.Fetcher, opts ...Option) *Normaliser {
	w := &Normaliser{
		fetcher:   fetcher,
		segmenter: segmenter.New(segmenter.WithMinWords(domain.MinWebsiteWords)),
		maxPages:  DefaultMaxPages,
		mode:      domain.ExtractionText,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SourceType returns the ingestion source this normaliser handles.
func (w *Normaliser) SourceType() domain.SourceType {
	return domain.SourceWebsite
}

// Normalise crawls the site at path with the configured page budget.
func (w *Normaliser) Normalise(ctx context.Context, path string) ([]domain.Record, error) {
	return w.Crawl(ctx, path, w.maxPages)
}

// PageResult is the outcome of processing one URL.
// A page is either processed (Err is nil) or skipped with a reason.
type PageResult struct {
	// URL is the visited URL.
	URL string

	// Records are the chunks that met the word minimum.
	Records []domain.Record

	// Links are the absolute http(s) links found on the page.
	Links []string

	// Err is the reason the page was skipped.
	Err error
}

// Skipped reports whether the page was skipped.
func (r PageResult) Skipped() bool {
	return r.Err != nil
}

// Errors returned as skip reasons.
var (
	errNotHTML         = errors.New("unsupported content type")
	errOffOriginTarget = errors.New("redirected to another origin")
	errVisitedTarget   = errors.New("redirected to an already visited page")
)

// Crawl visits at most maxPages distinct URLs on the seed's origin, breadth first.
// Pages that fail to fetch or parse are logged and skipped; they count as visited
// and are not retried. A maxPages of zero or less uses the configured default.
func (w *Normaliser) Crawl(ctx context.Context, seedURL string, maxPages int) ([]domain.Record, error) {
	seed, err := parseSeed(seedURL)
	if err != nil {
		return nil, err
	}
	if maxPages <= 0 {
		maxPages = w.maxPages
	}

	logger.Section("Website Crawl")
	logger.Debug("Seed: %s, max pages: %d, mode: %s", seed, maxPages, w.mode)

	frontier := NewFrontier(seed, maxPages)
	var records []domain.Record

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("crawl %s: %w", seed, err)
		}

		next, ok := frontier.Next()
		if !ok {
			break
		}

		logger.Info("Scraping URL: %s", next)
		result := w.processPage(ctx, frontier, next)
		frontier.MarkVisited(next)

		if result.Skipped() {
			logger.Warn("Skipping %s: %v", next, result.Err)
			continue
		}

		records = append(records, result.Records...)
		added := frontier.Enqueue(result.Links)
		logger.Debug("%s: %d records, %d new links, %d pending", next, len(result.Records), added, frontier.Pending())
	}

	logger.Info("Finished scraping %d pages, %d records", frontier.Visited(), len(records))
	return records, nil
}

// processPage fetches and extracts one page. It never panics or returns an
// error directly; every failure becomes a skip reason on the result.
func (w *Normaliser) processPage(ctx context.Context, frontier *Frontier, pageURL string) PageResult {
	result := PageResult{URL: pageURL}

	page, err := w.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		result.Err = fmt.Errorf("fetch: %w", err)
		return result
	}

	if page.ContentType != "" && !strings.Contains(strings.ToLower(page.ContentType), "html") {
		result.Err = fmt.Errorf("%w: %s", errNotHTML, page.ContentType)
		return result
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		result.Err = fmt.Errorf("parse url: %w", err)
		return result
	}
	if page.URL != "" && page.URL != pageURL {
		final, err := url.Parse(page.URL)
		if err != nil {
			result.Err = fmt.Errorf("parse final url: %w", err)
			return result
		}
		if !frontier.SameOrigin(final) {
			result.Err = fmt.Errorf("%w: %s", errOffOriginTarget, page.URL)
			return result
		}
		if frontier.IsVisited(normaliseURL(final)) {
			result.Err = fmt.Errorf("%w: %s", errVisitedTarget, page.URL)
			return result
		}
		base = final
	}

	ext, err := extract(page.Body, base, w.mode)
	if err != nil {
		result.Err = err
		return result
	}

	for _, chunk := range w.segmenter.Process(ext.Text) {
		result.Records = append(result.Records, domain.Record{
			ID:   uuid.New().String(),
			Text: chunk,
			Metadata: domain.Metadata{
				domain.MetaSource: domain.SourceWebsite.String(),
				domain.MetaPath:   pageURL,
			},
		})
	}
	result.Links = ext.Links

	return result
}

// parseSeed validates that raw is an absolute http(s) URL.
func parseSeed(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: seed url %q: %w", domain.ErrInvalidInput, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: seed url %q must be an absolute http(s) URL", domain.ErrInvalidInput, raw)
	}
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}
