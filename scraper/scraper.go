package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultUserAgent is the desktop Chrome user agent the browser presents
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// readyExpression is truthy once client-side rendering has produced topic entries
const readyExpression = `!!document.querySelector("a[class*='title'], .topic-list-item, .topic-title, a[href*='/t/']")`

// Renderer loads a URL and returns the rendered page
type Renderer interface {
	Render(ctx context.Context, url string) (*Page, error)
	Close() error
}

// SessionOptions configures the headless browser
type SessionOptions struct {
	UserAgent     string
	RenderTimeout time.Duration // how long to poll for topic elements
	PageTimeout   time.Duration // upper bound for one page load
	ExecPath      string        // optional Chrome binary
}

// Session is one headless Chrome instance with a single tab
type Session struct {
	opts        SessionOptions
	ctx         context.Context
	cancelAlloc context.CancelFunc
	cancelTab   context.CancelFunc
}

// NewSession launches Chrome. The caller must Close the session.
func NewSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = time.Minute
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(opts.UserAgent),
		chromedp.Flag("headless", true),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// starts the browser
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &Session{
		opts:        opts,
		ctx:         tabCtx,
		cancelAlloc: cancelAlloc,
		cancelTab:   cancelTab,
	}, nil
}

// Render navigates the tab to url, waits for topic entries to appear (or the
// render timeout to pass) and captures the page.
func (s *Session) Render(ctx context.Context, url string) (*Page, error) {
	runCtx, cancel := context.WithTimeout(s.ctx, s.opts.PageTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	slog.Info("loading page", "url", url)
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp failed to load %s: %w", url, err)
	}

	if s.opts.RenderTimeout > 0 {
		var ready bool
		err = chromedp.Run(runCtx, chromedp.Poll(readyExpression, &ready,
			chromedp.WithPollingTimeout(s.opts.RenderTimeout),
		))
		if err != nil {
			if runCtx.Err() != nil {
				return nil, fmt.Errorf("chromedp gave up on %s: %w", url, runCtx.Err())
			}
			slog.Debug("no topic elements rendered before timeout", "url", url, "err", err)
		}
	}

	page := &Page{}
	err = chromedp.Run(runCtx,
		chromedp.Title(&page.Title),
		chromedp.Location(&page.URL),
		chromedp.OuterHTML("html", &page.HTML, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp failed to read %s: %w", url, err)
	}
	if page.URL == "" {
		page.URL = url
	}

	slog.Info("page loaded", "url", page.URL, "title", page.Title)
	return page, nil
}

// Close shuts the tab and the browser process down
func (s *Session) Close() error {
	s.cancelTab()
	s.cancelAlloc()
	return nil
}
