package driven

import "context"

// Page is a fetched web page.
type Page struct {
	// URL is the final URL after redirects.
	URL string

	// StatusCode is the HTTP status code.
	StatusCode int

	// ContentType is the response Content-Type header.
	ContentType string

	// Body is the raw response body.
	Body []byte
}

// Fetcher retrieves a single web page with a bounded timeout.
// Non-2xx responses are returned as errors.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}
