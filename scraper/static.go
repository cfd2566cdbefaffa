package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"discourse-feed/models"

	"github.com/gocolly/colly"
)

// StaticCollector fetches the category page without running JavaScript.
// Discourse serves a crawler view with plain topic links to such clients.
type StaticCollector struct {
	PageURL   string
	UserAgent string
	Timeout   time.Duration
}

func (s *StaticCollector) Name() string {
	return "static-html"
}

func (s *StaticCollector) fetch(ctx context.Context) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := colly.NewCollector(
		colly.UserAgent(s.UserAgent),
	)
	if s.Timeout > 0 {
		c.SetRequestTimeout(s.Timeout)
	}

	var page *Page
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		page = &Page{URL: r.Request.URL.String(), HTML: string(r.Body)}
	})

	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("visiting %s returned %d: %w", r.Request.URL, r.StatusCode, err)
	})

	slog.Info("fetching static page", "url", s.PageURL)
	if err := c.Visit(s.PageURL); err != nil && fetchErr == nil {
		fetchErr = err
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if page == nil {
		return nil, fmt.Errorf("no response from %s", s.PageURL)
	}
	return page, nil
}

func (s *StaticCollector) Collect(ctx context.Context) ([]models.Topic, error) {
	page, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := page.Document()
	if err != nil {
		return nil, err
	}
	page.Title = doc.Find("title").First().Text()

	if !LooksLikeForum(page.Title) {
		slog.Info("static page does not look like the forum", "url", page.URL, "title", page.Title)
	}

	topics, err := ExtractTopics(page)
	if err != nil {
		return nil, err
	}
	slog.Info("static page topics", "url", page.URL, "count", len(topics))
	return topics, nil
}
