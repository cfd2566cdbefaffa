package publisher

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"discourse-feed/models"
)

// marshal renders v as a 2-space indented JSON document. Non-ASCII text and
// markup in cooked bodies are written as-is.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to marshal json: %w", err)
	}
	return unescapeLineSeparators(buf.Bytes()), nil
}

// unescapeLineSeparators undoes the encoder's \u2028 and \u2029 escapes,
// which it applies even with HTML escaping off.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if i+6 <= len(data) {
			switch string(data[i+1 : i+6]) {
			case "u2028":
				out = append(out, "\u2028"...)
				i += 5
				continue
			case "u2029":
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		// any other escape is copied whole so an escaped backslash is not reread
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

// WriteJSON overwrites filePath with the posts as a pretty-printed JSON array
func WriteJSON(filePath string, posts []models.Post) error {
	if posts == nil {
		posts = []models.Post{}
	}

	data, err := marshal(posts)
	if err != nil {
		return err
	}

	if err := ensureDir(filePath); err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	slog.Info("saved posts", "count", len(posts), "file", filePath)
	return nil
}

var csvHeader = []string{
	"topic_id", "topic_title", "topic_url", "post_id", "post_number", "username",
	"created_at", "updated_at", "raw_content", "cooked_content", "reply_count", "like_count",
}

// WriteCSV overwrites filePath with one row per post. Null fields become empty cells.
func WriteCSV(filePath string, posts []models.Post) error {
	if err := ensureDir(filePath); err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, p := range posts {
		row := []string{
			p.TopicID,
			p.TopicTitle,
			p.TopicURL,
			formatID(p.PostID),
			formatInt(p.PostNumber),
			deref(p.Username),
			deref(p.CreatedAt),
			deref(p.UpdatedAt),
			p.RawContent,
			p.CookedContent,
			strconv.Itoa(p.ReplyCount),
			strconv.Itoa(p.LikeCount),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	slog.Info("exported posts", "count", len(posts), "file", filePath)
	return nil
}

func ensureDir(filePath string) error {
	dir := filepath.Dir(filePath)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatID(v *models.ID) string {
	if v == nil {
		return ""
	}
	return v.String()
}
