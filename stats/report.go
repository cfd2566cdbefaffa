package stats

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// TopicStats is the per-topic outcome of a scrape run
type TopicStats struct {
	TopicID string
	Title   string
	Fetched int
	Kept    int
	Failed  bool
}

// Report tracks what a single scrape run did
type Report struct {
	Source           string
	TopicsDiscovered int
	TopicsSkipped    int
	PostsDropped     int
	UsedSampleData   bool
	Topics           []TopicStats
	Now              func() time.Time
}

func NewReport() *Report {
	return &Report{Now: time.Now}
}

// TrackTopic records the result of processing one topic
func (r *Report) TrackTopic(topicID, title string, fetched, kept int, err error) {
	r.Topics = append(r.Topics, TopicStats{
		TopicID: topicID,
		Title:   title,
		Fetched: fetched,
		Kept:    kept,
		Failed:  err != nil,
	})
}

func (r *Report) PostsFetched() int {
	total := 0
	for _, t := range r.Topics {
		total += t.Fetched
	}
	return total
}

func (r *Report) PostsKept() int {
	total := 0
	for _, t := range r.Topics {
		total += t.Kept
	}
	return total
}

func (r *Report) TopicsFailed() int {
	failed := 0
	for _, t := range r.Topics {
		if t.Failed {
			failed++
		}
	}
	return failed
}

// Summary renders the run as markdown
func (r *Report) Summary() string {
	var sb strings.Builder

	sb.WriteString("# Discourse Scrape Report\n\n")

	source := r.Source
	if source == "" {
		source = "none"
	}
	sb.WriteString(fmt.Sprintf("- **Topic source:** %s\n", source))
	sb.WriteString(fmt.Sprintf("- **Topics discovered:** %d\n", r.TopicsDiscovered))
	sb.WriteString(fmt.Sprintf("- **Topics processed:** %d\n", len(r.Topics)))
	sb.WriteString(fmt.Sprintf("- **Topics skipped (no id):** %d\n", r.TopicsSkipped))
	sb.WriteString(fmt.Sprintf("- **Topics failed:** %d\n", r.TopicsFailed()))
	sb.WriteString(fmt.Sprintf("- **Posts fetched:** %d\n", r.PostsFetched()))
	sb.WriteString(fmt.Sprintf("- **Posts in date range:** %d\n", r.PostsKept()))
	sb.WriteString(fmt.Sprintf("- **Records dropped by quality gate:** %d\n", r.PostsDropped))

	if r.UsedSampleData {
		sb.WriteString("\n> Live scraping produced nothing; the output holds sample data.\n")
	}

	if len(r.Topics) > 0 {
		sb.WriteString("\n| Topic | Title | Fetched | Kept | Status |\n")
		sb.WriteString("| :--- | :--- | ---: | ---: | :--- |\n")
		for _, t := range r.Topics {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %s |\n",
				t.TopicID, strings.ReplaceAll(t.Title, "|", "\\|"), t.Fetched, t.Kept, status(t)))
		}
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	sb.WriteString(fmt.Sprintf("\n_Generated: %s_\n", now().UTC().Format(time.RFC1123)))

	return sb.String()
}

// WriteSummary writes the markdown summary to filePath and, when running in
// GitHub Actions, appends it to GITHUB_STEP_SUMMARY.
func (r *Report) WriteSummary(filePath string) error {
	summary := r.Summary()

	if stepSummaryPath := os.Getenv("GITHUB_STEP_SUMMARY"); stepSummaryPath != "" {
		f, err := os.OpenFile(stepSummaryPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open step summary file: %w", err)
		}
		defer f.Close()

		if _, err := f.WriteString(summary); err != nil {
			return fmt.Errorf("failed to write to step summary file: %w", err)
		}
	}

	if dir := filepath.Dir(filePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(filePath, []byte(summary), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// RenderTable prints per-topic counts
func (r *Report) RenderTable(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Topic", "Title", "Fetched", "Kept", "Status"})

	for _, topic := range r.Topics {
		t.AppendRow(table.Row{topic.TopicID, topic.Title, topic.Fetched, topic.Kept, status(topic)})
	}

	t.AppendFooter(table.Row{"", "Total", r.PostsFetched(), r.PostsKept(), ""})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func status(t TopicStats) string {
	if t.Failed {
		return "failed"
	}
	return "ok"
}
