package ingest

import (
	"log/slog"
	"strings"

	"discourse-feed/models"
)

// ValidRecord reports whether a post carries the fields every written record must have
func ValidRecord(p models.Post) bool {
	return strings.TrimSpace(p.TopicTitle) != "" &&
		strings.TrimSpace(p.TopicURL) != "" &&
		p.PostNumber != nil
}

// KeepValid drops records failing ValidRecord and returns how many were dropped
func KeepValid(posts []models.Post) ([]models.Post, int) {
	valid := make([]models.Post, 0, len(posts))
	dropped := 0
	for _, p := range posts {
		if !ValidRecord(p) {
			slog.Warn("dropping incomplete record", "topic_id", p.TopicID, "topic_url", p.TopicURL)
			dropped++
			continue
		}
		valid = append(valid, p)
	}
	return valid, dropped
}
