package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"discourse-feed/filter"
	"discourse-feed/models"
	"discourse-feed/stats"

	"golang.org/x/time/rate"
)

// MaxTopics is the hard cap on topics processed per run
const MaxTopics = 5

// SampleSource names the result source when sample data was substituted
const SampleSource = "sample"

// Fetcher tries each collector in order and keeps the first non-empty topic list
type Fetcher struct {
	Collectors []Collector
}

func NewFetcher(collectors ...Collector) *Fetcher {
	return &Fetcher{Collectors: collectors}
}

// Topics returns the topics found and the name of the collector that found them.
// Collector errors are logged and the next collector is tried.
func (f *Fetcher) Topics(ctx context.Context) ([]models.Topic, string) {
	for _, c := range f.Collectors {
		if ctx.Err() != nil {
			return nil, ""
		}

		slog.Info("collecting topics", "collector", c.Name())
		topics, err := c.Collect(ctx)
		if err != nil {
			slog.Warn("collector failed", "collector", c.Name(), "err", err)
			continue
		}
		if len(topics) == 0 {
			slog.Info("collector found no topics", "collector", c.Name())
			continue
		}

		slog.Info("collector found topics", "collector", c.Name(), "count", len(topics))
		return topics, c.Name()
	}
	return nil, ""
}

// Close releases collectors holding resources, such as a browser session
func (f *Fetcher) Close() error {
	var errs []error
	for _, c := range f.Collectors {
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Options controls a scrape run
type Options struct {
	Range      filter.DateRange
	MaxTopics  int           // may only lower MaxTopics
	TopicDelay time.Duration // minimum spacing between topic requests
}

func (o Options) topicCap() int {
	if o.MaxTopics > 0 && o.MaxTopics < MaxTopics {
		return o.MaxTopics
	}
	return MaxTopics
}

// Result is the outcome of a scrape run
type Result struct {
	Posts          []models.Post
	Source         string
	UsedSampleData bool
}

func sampleResult(report *stats.Report) Result {
	report.UsedSampleData = true
	report.Source = SampleSource
	return Result{
		Posts:          SampleData(),
		Source:         SampleSource,
		UsedSampleData: true,
	}
}

// Run discovers topics, fetches and date-filters their posts, and falls back
// to SampleData when either no topic or no post survives. The only error it
// returns is context cancellation.
func Run(ctx context.Context, fetcher *Fetcher, source PostSource, opts Options, report *stats.Report) (Result, error) {
	if report == nil {
		report = stats.NewReport()
	}

	slog.Info("attempting to scrape posts", "range", opts.Range.String())

	topics, collector := fetcher.Topics(ctx)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	report.TopicsDiscovered = len(topics)

	if len(topics) == 0 {
		slog.Warn("no topics found from scraping, using sample data")
		return sampleResult(report), nil
	}

	if len(topics) > opts.topicCap() {
		topics = topics[:opts.topicCap()]
	}

	limiter := rate.NewLimiter(rate.Every(opts.TopicDelay), 1)

	var allPosts []models.Post
	for i, topic := range topics {
		if topic.TopicID == "" {
			slog.Warn("skipping topic without id", "title", topic.Title, "url", topic.URL)
			report.TopicsSkipped++
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return Result{}, err
		}

		slog.Info("processing topic", "index", i+1, "of", len(topics), "topic_id", topic.TopicID, "title", topic.Title)

		posts, err := source.TopicPosts(ctx, topic)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, ctxErr
			}
			slog.Warn("failed to scrape topic", "topic_id", topic.TopicID, "err", err)
			report.TrackTopic(topic.TopicID, topic.Title, 0, 0, err)
			continue
		}

		filtered := filter.ByDate(posts, opts.Range)
		report.TrackTopic(topic.TopicID, topic.Title, len(posts), len(filtered), nil)
		allPosts = append(allPosts, filtered...)
	}

	allPosts, dropped := KeepValid(allPosts)
	report.PostsDropped = dropped

	if len(allPosts) == 0 {
		slog.Warn("no posts found after scraping, using sample data")
		return sampleResult(report), nil
	}

	report.Source = collector
	return Result{Posts: allPosts, Source: collector}, nil
}
