// Package fetch downloads job posting pages and pulls the posting out of
// their HTML.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultTimeout bounds one page download, redirects included.
	DefaultTimeout = 20 * time.Second
	// DefaultUserAgent identifies SkillMatch to job boards.
	DefaultUserAgent = "Mozilla/5.0 (compatible; SkillMatch/1.0)"
	// DefaultMaxBodyBytes caps how much of a page is read.
	DefaultMaxBodyBytes = 5 << 20
)

var (
	// ErrInvalidURL is returned for anything but an absolute http(s) URL
	ErrInvalidURL = errors.New("job posting URL must be an absolute http or https URL")
	// ErrNotHTML is returned when the URL serves a download instead of a page
	ErrNotHTML = errors.New("job posting URL does not serve an HTML page")
)

// StatusError reports a job board answering with something other than 200.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s answered HTTP %d", e.URL, e.Status)
}

// Page is a downloaded job posting page.
type Page struct {
	// URL is the address that was requested; FinalURL is where redirects ended.
	URL      string
	FinalURL string
	Board    Board
	HTML     string
}

// Options configures a Client. Zero fields take the package defaults.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// Client downloads job posting pages. It is safe for concurrent use.
type Client struct {
	http      *http.Client
	userAgent string
	maxBody   int64
}

// NewClient builds a Client from opts.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Client{
		http:      &http.Client{Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
		maxBody:   opts.MaxBodyBytes,
	}
}

// Get downloads a job posting page. The board is detected from the final
// URL, so tracking links and short links resolve to the real job board.
func (c *Client) Get(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
	req.Header.Set("Accept-Language", "en")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: rawURL, Status: resp.StatusCode}
	}
	if ct := resp.Header.Get("Content-Type"); !isPageType(ct) {
		return nil, fmt.Errorf("%w: %s serves %s", ErrNotHTML, rawURL, ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rawURL, err)
	}

	final := resp.Request.URL.String()
	return &Page{URL: rawURL, FinalURL: final, Board: BoardFor(final), HTML: string(body)}, nil
}

// isPageType accepts HTML and plain text. A missing Content-Type is let
// through; the extractor copes with whatever arrives.
func isPageType(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml", "text/plain":
		return true
	}
	return false
}
