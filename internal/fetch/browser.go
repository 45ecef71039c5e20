package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chromedp/chromedp"
)

const (
	// MinDescriptionLength is the description length, in runes, below which
	// an HTTP-only extraction is treated as an unrendered page.
	MinDescriptionLength = 400
	// DefaultRenderTimeout bounds one headless render.
	DefaultRenderTimeout = 45 * time.Second
	// DefaultSettle is the time scripts get after the description appears.
	DefaultSettle = 750 * time.Millisecond
)

// NeedsRender reports whether a posting read over plain HTTP should be
// re-read from a browser-rendered page.
func NeedsRender(p *Posting, board Board) bool {
	if board.ClientRendered {
		return true
	}
	return p == nil || utf8.RuneCountInString(strings.TrimSpace(p.Description)) < MinDescriptionLength
}

// Renderer loads job posting pages in headless Chrome. Chrome or Chromium
// must be installed.
type Renderer struct {
	Timeout time.Duration
	Settle  time.Duration
	Verbose bool
}

// Render returns the page HTML once the board's description is visible.
// Unknown sites wait for <body> only.
func (r Renderer) Render(ctx context.Context, rawURL string, board Board) (string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	settle := r.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
			chromedp.WindowSize(1280, 2000),
		)...,
	)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	start := time.Now()
	var page string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitVisible(waitSelector(board), chromedp.ByQuery),
		chromedp.Sleep(settle),
		chromedp.OuterHTML("html", &page, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", rawURL, err)
	}

	if r.Verbose {
		log.Printf("[fetch] rendered %s (%s) in %s: %d bytes", rawURL, board.Name, time.Since(start).Round(time.Millisecond), len(page))
	}
	return page, nil
}

func waitSelector(board Board) string {
	if board.Name == GenericBoardName || len(board.Description) == 0 {
		return "body"
	}
	return strings.Join(board.Description, ", ")
}
