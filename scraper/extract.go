package scraper

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"discourse-feed/models"
	"discourse-feed/utils"

	"github.com/PuerkitoBio/goquery"
)

// TopicSelectors are tried in order; the first one yielding a topic wins.
var TopicSelectors = []string{
	"a.title",
	".topic-title a",
	".topic-list-item .title a",
	"a[class*='title']",
	".topic-title",
	"h3 a",
	".topic-link",
}

// ProbeSelector decides whether a candidate page lists topics
const ProbeSelector = "a[class*='title'], .topic-list-item, .topic-title"

const (
	maxPerSelector  = 10
	maxScannedLinks = 20
	minTitleLen     = 3
	minLinkTextLen  = 5
)

// Page is a fetched page: its final URL, document title and full HTML
type Page struct {
	URL   string
	Title string
	HTML  string
}

func (p *Page) Document() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html of %s: %w", p.URL, err)
	}
	return doc, nil
}

// LooksLikeForum is the page-title heuristic for a loaded forum page
func LooksLikeForum(title string) bool {
	return strings.Contains(title, "Discourse") || strings.Contains(title, "Forum")
}

// CountTopicElements counts elements that look like topic entries
func CountTopicElements(doc *goquery.Document) int {
	return doc.Find(ProbeSelector).Length()
}

func elementText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// ExtractTopics finds topic links on the page: the selector list first, then
// a scan of every link when no selector yields anything.
func ExtractTopics(page *Page) ([]models.Topic, error) {
	doc, err := page.Document()
	if err != nil {
		return nil, err
	}

	sanitizer, err := utils.NewSanitizer(page.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url %q: %w", page.URL, err)
	}

	if topics := extractBySelectors(doc, sanitizer); len(topics) > 0 {
		return topics, nil
	}

	slog.Info("no topics found with standard selectors, trying all links", "url", page.URL)
	return scanLinks(doc, sanitizer), nil
}

func extractBySelectors(doc *goquery.Document, sanitizer *utils.Sanitizer) []models.Topic {
	for _, selector := range TopicSelectors {
		elements := doc.Find(selector)
		slog.Debug("selector matched", "selector", selector, "count", elements.Length())
		if elements.Length() == 0 {
			continue
		}

		var topics []models.Topic
		elements.Slice(0, min(elements.Length(), maxPerSelector)).Each(func(_ int, s *goquery.Selection) {
			link := utils.CleanURL(sanitizer.Resolve(s.AttrOr("href", "")))
			title := elementText(s)
			if link == "" || utf8.RuneCountInString(title) <= minTitleLen {
				return
			}
			topics = append(topics, models.Topic{
				Title:   title,
				URL:     link,
				TopicID: utils.ExtractTopicID(link),
			})
		})

		if len(topics) > 0 {
			slog.Info("selector found topics", "selector", selector, "count", len(topics))
			return topics
		}
	}
	return nil
}

func scanLinks(doc *goquery.Document, sanitizer *utils.Sanitizer) []models.Topic {
	links := doc.Find("a")
	slog.Debug("scanning links", "count", links.Length())

	var topics []models.Topic
	links.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := utils.CleanURL(sanitizer.Resolve(s.AttrOr("href", "")))
		text := elementText(s)
		if link != "" && utils.IsTopicLink(link) && utf8.RuneCountInString(text) > minLinkTextLen {
			topics = append(topics, models.Topic{
				Title:   text,
				URL:     link,
				TopicID: utils.ExtractTopicID(link),
			})
		}
		return len(topics) < maxScannedLinks
	})
	return topics
}
