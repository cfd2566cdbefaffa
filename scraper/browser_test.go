package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	pages    map[string]*Page
	rendered []string
	closed   bool
}

func (f *fakeRenderer) Render(ctx context.Context, url string) (*Page, error) {
	f.rendered = append(f.rendered, url)
	page, ok := f.pages[url]
	if !ok {
		return nil, errors.New("net::ERR_NAME_NOT_RESOLVED")
	}
	return page, nil
}

func (f *fakeRenderer) Close() error {
	f.closed = true
	return nil
}

func forumPage(url, body string) *Page {
	return &Page{
		URL:   url,
		Title: "TDS - IITM Discourse",
		HTML:  "<html><body>" + body + "</body></html>",
	}
}

func newTestCollector(renderer *fakeRenderer, candidates ...string) (*BrowserCollector, *int) {
	launches := 0
	return &BrowserCollector{
		CourseURL:     "https://forum.example.com/c/course/1",
		CandidateURLs: candidates,
		Launch: func(ctx context.Context) (Renderer, error) {
			launches++
			return renderer, nil
		},
	}, &launches
}

func TestBrowserCollector_ProbeFirstPageWithTopicsWins(t *testing.T) {
	renderer := &fakeRenderer{pages: map[string]*Page{
		"https://forum.example.com/c/a": {URL: "https://forum.example.com/c/a", Title: "Oops", HTML: "<html></html>"},
		"https://forum.example.com/c/b": forumPage("https://forum.example.com/c/b", `<p>empty category</p>`),
		"https://forum.example.com/c/c": forumPage("https://forum.example.com/c/c", `<a class="title" href="/t/from-c/3">Topic from C</a>`),
		"https://forum.example.com/c/d": forumPage("https://forum.example.com/c/d", `<a class="title" href="/t/from-d/4">Topic from D</a>`),
	}}
	collector, launches := newTestCollector(renderer,
		"https://forum.example.com/c/missing",
		"https://forum.example.com/c/a",
		"https://forum.example.com/c/b",
		"https://forum.example.com/c/c",
		"https://forum.example.com/c/d",
	)

	topics, err := collector.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, topics, 1)
	assert.Equal(t, "3", topics[0].TopicID)
	assert.Equal(t, "https://forum.example.com/t/from-c/3", topics[0].URL)
	assert.Equal(t, "https://forum.example.com/c/c", collector.CourseURL)
	assert.Equal(t, []string{
		"https://forum.example.com/c/missing",
		"https://forum.example.com/c/a",
		"https://forum.example.com/c/b",
		"https://forum.example.com/c/c",
	}, renderer.rendered)
	assert.Equal(t, 1, *launches)
}

func TestBrowserCollector_LastForumPageKeptWhenNoneListsTopics(t *testing.T) {
	renderer := &fakeRenderer{pages: map[string]*Page{
		"https://forum.example.com/c/a": forumPage("https://forum.example.com/c/a", `<a href="/t/linked-discussion/9">Linked discussion</a>`),
		"https://forum.example.com/c/b": forumPage("https://forum.example.com/c/b", `<p>nothing</p>`),
	}}
	collector, _ := newTestCollector(renderer, "https://forum.example.com/c/a", "https://forum.example.com/c/b")

	topics, err := collector.Collect(context.Background())
	require.NoError(t, err)

	assert.Empty(t, topics)
	assert.Equal(t, "https://forum.example.com/c/b", collector.CourseURL)
	assert.Len(t, renderer.rendered, 2)
}

func TestBrowserCollector_FallsBackToCourseURL(t *testing.T) {
	renderer := &fakeRenderer{pages: map[string]*Page{
		"https://forum.example.com/c/course/1": forumPage("https://forum.example.com/c/course/1", `<a href="/t/linked-discussion/9">Linked discussion</a>`),
	}}
	collector, _ := newTestCollector(renderer, "https://forum.example.com/c/missing")

	topics, err := collector.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, topics, 1)
	assert.Equal(t, "9", topics[0].TopicID)
	assert.Equal(t, []string{"https://forum.example.com/c/missing", "https://forum.example.com/c/course/1"}, renderer.rendered)
}

func TestBrowserCollector_CourseURLFails(t *testing.T) {
	renderer := &fakeRenderer{}
	collector, _ := newTestCollector(renderer)

	_, err := collector.Collect(context.Background())
	assert.Error(t, err)
}

func TestBrowserCollector_LaunchFailure(t *testing.T) {
	collector := &BrowserCollector{
		CourseURL: "https://forum.example.com/c/course/1",
		Launch: func(ctx context.Context) (Renderer, error) {
			return nil, errors.New("chrome not found")
		},
	}

	_, err := collector.Collect(context.Background())
	assert.ErrorContains(t, err, "chrome not found")
	assert.NoError(t, collector.Close())
}

func TestBrowserCollector_Close(t *testing.T) {
	renderer := &fakeRenderer{pages: map[string]*Page{
		"https://forum.example.com/c/course/1": forumPage("https://forum.example.com/c/course/1", ""),
	}}
	collector, launches := newTestCollector(renderer)

	_, err := collector.Collect(context.Background())
	require.NoError(t, err)
	_, err = collector.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, *launches)

	require.NoError(t, collector.Close())
	assert.True(t, renderer.closed)
}
