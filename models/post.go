package models

// Topic is a topic summary found on a category page or in its JSON listing
type Topic struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	TopicID string `json:"topic_id"` // "" when the URL carries no id
}

// Post is a single flattened forum post. Field order is the output key order.
type Post struct {
	TopicID       string  `json:"topic_id"`
	TopicTitle    string  `json:"topic_title"`
	TopicURL      string  `json:"topic_url"`
	PostID        *ID     `json:"post_id"`
	PostNumber    *int    `json:"post_number"`
	Username      *string `json:"username"`
	CreatedAt     *string `json:"created_at"`
	UpdatedAt     *string `json:"updated_at"`
	RawContent    string  `json:"raw_content"`
	CookedContent string  `json:"cooked_content"`
	ReplyCount    int     `json:"reply_count"`
	LikeCount     int     `json:"like_count"`
}

// CreatedDate returns created_at, or "" when the source omitted it
func (p Post) CreatedDate() string {
	if p.CreatedAt == nil {
		return ""
	}
	return *p.CreatedAt
}

// Ptr returns a pointer to v, for building records with optional fields.
func Ptr[T any](v T) *T {
	return &v
}
