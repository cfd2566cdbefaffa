package scraper

import (
	"context"
	"log/slog"

	"discourse-feed/models"
)

// DefaultCandidateURLs are the pages probed for a live topic listing
var DefaultCandidateURLs = []string{
	"https://discourse.onlinedegree.iitm.ac.in/c/jan-2025-tools-in-data-science",
	"https://discourse.onlinedegree.iitm.ac.in/c/tools-in-data-science",
	"https://discourse.onlinedegree.iitm.ac.in/c/tds",
	"https://discourse.onlinedegree.iitm.ac.in/categories",
	"https://discourse.onlinedegree.iitm.ac.in/latest",
}

// BrowserCollector renders pages in a headless browser to discover topics
type BrowserCollector struct {
	CourseURL     string
	CandidateURLs []string
	// Launch opens the browser on first use
	Launch func(ctx context.Context) (Renderer, error)

	renderer Renderer
}

func NewBrowserCollector(courseURL string, candidates []string, opts SessionOptions) *BrowserCollector {
	return &BrowserCollector{
		CourseURL:     courseURL,
		CandidateURLs: candidates,
		Launch: func(ctx context.Context) (Renderer, error) {
			return NewSession(ctx, opts)
		},
	}
}

func (b *BrowserCollector) Name() string {
	return "browser"
}

func (b *BrowserCollector) session(ctx context.Context) (Renderer, error) {
	if b.renderer != nil {
		return b.renderer, nil
	}
	renderer, err := b.Launch(ctx)
	if err != nil {
		return nil, err
	}
	b.renderer = renderer
	return renderer, nil
}

func (b *BrowserCollector) Collect(ctx context.Context) ([]models.Topic, error) {
	renderer, err := b.session(ctx)
	if err != nil {
		return nil, err
	}

	page, err := b.probe(ctx, renderer)
	if err != nil {
		return nil, err
	}

	if page == nil {
		page, err = renderer.Render(ctx, b.CourseURL)
		if err != nil {
			return nil, err
		}
	}

	topics, err := ExtractTopics(page)
	if err != nil {
		return nil, err
	}
	slog.Info("total topics found", "url", page.URL, "count", len(topics))
	return topics, nil
}

// probe renders each candidate URL in order. A page whose title looks like
// the forum becomes the working page; the first one that also lists topic
// entries ends the probe. Returns nil when no candidate looked like the forum.
func (b *BrowserCollector) probe(ctx context.Context, renderer Renderer) (*Page, error) {
	var working *Page
	for _, candidate := range b.CandidateURLs {
		slog.Info("testing url", "url", candidate)

		page, err := renderer.Render(ctx, candidate)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("error testing url", "url", candidate, "err", err)
			continue
		}

		if !LooksLikeForum(page.Title) {
			slog.Info("candidate is not a forum page", "url", candidate, "title", page.Title)
			continue
		}
		working = page

		doc, err := page.Document()
		if err != nil {
			slog.Warn("error testing url", "url", candidate, "err", err)
			continue
		}

		count := CountTopicElements(doc)
		slog.Info("candidate loaded", "url", candidate, "potential_topics", count)
		if count > 0 {
			slog.Info("found topics", "url", candidate)
			break
		}
	}

	if working != nil {
		b.CourseURL = working.URL
	}
	return working, nil
}

// Close releases the browser if it was launched
func (b *BrowserCollector) Close() error {
	if b.renderer == nil {
		return nil
	}
	err := b.renderer.Close()
	b.renderer = nil
	return err
}
