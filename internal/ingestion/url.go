package ingestion

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/skillmatch/internal/extract"
	"github.com/jonathan/skillmatch/internal/fetch"
)

// RenderFunc renders a job posting page in a browser and returns its HTML.
type RenderFunc func(ctx context.Context, url string, board fetch.Board) (string, error)

// URLOptions configures FromURL.
type URLOptions struct {
	// UseBrowser enables headless rendering for JavaScript job boards and
	// for pages whose description comes back too short.
	UseBrowser bool
	Verbose    bool
	Fetch      fetch.Options
	// Render defaults to a fetch.Renderer.
	Render RenderFunc
}

// FromURL downloads a job posting and reads its description. With
// UseBrowser set, postings that fetch.NeedsRender flags are rendered and
// read again; a failed render keeps the HTTP result.
func FromURL(ctx context.Context, urlStr string, opts *URLOptions) (*JobPosting, error) {
	if opts == nil {
		opts = &URLOptions{}
	}

	page, err := fetch.NewClient(opts.Fetch).Get(ctx, urlStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	board := page.Board
	if opts.Verbose {
		log.Printf("[ingest] fetched %s (%s board, %d bytes)", page.FinalURL, board.Name, len(page.HTML))
	}

	posting, err := fetch.ExtractPosting(page.HTML, board)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	usedBrowser := false
	if opts.UseBrowser && fetch.NeedsRender(posting, board) {
		render := opts.Render
		if render == nil {
			render = fetch.Renderer{Verbose: opts.Verbose}.Render
		}
		if rendered, ok := renderPosting(ctx, render, page, board); ok {
			posting = rendered
			usedBrowser = true
		}
	}

	cleaned := extract.CleanText(posting.Description)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyContent, urlStr)
	}

	metadata := NewMetadata(SourceURL, cleaned)
	metadata.URL = urlStr
	metadata.Platform = board.Name
	metadata.Title = posting.Title
	metadata.Company = posting.Company
	metadata.Browser = usedBrowser
	return &JobPosting{Text: cleaned, Metadata: metadata}, nil
}

func renderPosting(ctx context.Context, render RenderFunc, page *fetch.Page, board fetch.Board) (*fetch.Posting, bool) {
	html, err := render(ctx, page.FinalURL, board)
	if err != nil {
		log.Printf("[ingest] rendering %s failed, keeping HTTP content: %v", page.URL, err)
		return nil, false
	}
	posting, err := fetch.ExtractPosting(html, board)
	if err != nil {
		log.Printf("[ingest] reading rendered %s failed: %v", page.URL, err)
		return nil, false
	}
	if posting.Description == "" {
		return nil, false
	}
	return posting, true
}
