package filter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"discourse-feed/models"
	"discourse-feed/publisher"
)

// DateLayout is the calendar-date format used for range bounds and post dates
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar days
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseRange parses YYYY-MM-DD bounds. Start must not be after End.
func ParseRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if s.After(e) {
		return DateRange{}, fmt.Errorf("start date %s is after end date %s", start, end)
	}
	return DateRange{Start: s, End: e}, nil
}

// Contains reports whether the day is within the range, bounds included
func (r DateRange) Contains(day time.Time) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// ByDate keeps posts whose created_at day falls inside the range.
// Posts whose date is missing or does not parse are always kept.
func ByDate(posts []models.Post, r DateRange) []models.Post {
	filtered := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		day, ok := postDay(post.CreatedDate())
		if !ok {
			slog.Debug("keeping post with unparseable date", "topic_id", post.TopicID, "created_at", post.CreatedDate())
			filtered = append(filtered, post)
			continue
		}
		if r.Contains(day) {
			filtered = append(filtered, post)
		}
	}
	return filtered
}

func postDay(createdAt string) (time.Time, bool) {
	if len(createdAt) < len(DateLayout) {
		return time.Time{}, false
	}
	day, err := time.Parse(DateLayout, createdAt[:len(DateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// RunFilter re-filters an existing JSON dump of posts into outputFile
func RunFilter(inputFile, outputFile string, r DateRange) (int, error) {
	file, err := os.Open(inputFile)
	if err != nil {
		return 0, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var posts []models.Post
	if err := json.NewDecoder(file).Decode(&posts); err != nil {
		return 0, fmt.Errorf("failed to decode posts json: %w", err)
	}

	filtered := ByDate(posts, r)
	slog.Info("filtered posts", "input", len(posts), "kept", len(filtered), "range", r.String())

	if err := publisher.WriteJSON(outputFile, filtered); err != nil {
		return 0, err
	}
	return len(filtered), nil
}
