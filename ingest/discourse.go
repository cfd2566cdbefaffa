package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"discourse-feed/models"
	"discourse-feed/utils"

	"github.com/go-resty/resty/v2"
)

// ErrUnexpectedStatus is returned when Discourse answers with anything but 200
var ErrUnexpectedStatus = errors.New("unexpected status")

// categoryResponse is the part of <category>.json we read
type categoryResponse struct {
	TopicList *struct {
		Topics []struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
			Slug  string `json:"slug"`
		} `json:"topics"`
	} `json:"topic_list"`
}

// topicResponse is the part of /t/<id>.json we read
type topicResponse struct {
	PostStream struct {
		Posts []postPayload `json:"posts"`
	} `json:"post_stream"`
}

type postPayload struct {
	ID             *models.ID `json:"id"`
	PostNumber     *int       `json:"post_number"`
	Username       *string    `json:"username"`
	CreatedAt      *string    `json:"created_at"`
	UpdatedAt      *string    `json:"updated_at"`
	Raw            *string    `json:"raw"`
	Cooked         *string    `json:"cooked"`
	ReplyCount     *int       `json:"reply_count"`
	ActionsSummary []struct {
		Count *int `json:"count"`
	} `json:"actions_summary"`
}

// DiscourseClient reads the forum's JSON endpoints
type DiscourseClient struct {
	BaseURL string
	http    *resty.Client
}

func NewDiscourseClient(baseURL, userAgent string, timeout time.Duration) *DiscourseClient {
	httpClient := resty.New()
	httpClient.SetTimeout(timeout)
	httpClient.SetHeader("Accept", "application/json")
	if userAgent != "" {
		httpClient.SetHeader("User-Agent", userAgent)
	}

	return &DiscourseClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *DiscourseClient) getJSON(ctx context.Context, url string, out any) error {
	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	if res.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, url, res.StatusCode())
	}

	if err := json.Unmarshal(res.Body(), out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// CategoryTopics reads <categoryURL>.json and lists its topics
func (c *DiscourseClient) CategoryTopics(ctx context.Context, categoryURL string) ([]models.Topic, error) {
	var payload categoryResponse
	if err := c.getJSON(ctx, strings.TrimRight(categoryURL, "/")+".json", &payload); err != nil {
		return nil, err
	}
	return c.parseTopicList(payload), nil
}

// An empty listing yields no topics, so the Fetcher moves on to the browser
// instead of settling for sample data.
func (c *DiscourseClient) parseTopicList(payload categoryResponse) []models.Topic {
	if payload.TopicList == nil {
		return nil
	}

	var topics []models.Topic
	for _, t := range payload.TopicList.Topics {
		if t.ID == 0 || strings.TrimSpace(t.Title) == "" {
			continue
		}
		id := strconv.FormatInt(t.ID, 10)

		link := utils.JoinPath(c.BaseURL, "t", id)
		if t.Slug != "" {
			link = utils.JoinPath(c.BaseURL, "t", t.Slug, id)
		}

		topics = append(topics, models.Topic{
			Title:   strings.TrimSpace(t.Title),
			URL:     link,
			TopicID: id,
		})
	}
	return topics
}

// TopicPosts reads <base>/t/<id>.json and flattens its post stream
func (c *DiscourseClient) TopicPosts(ctx context.Context, topic models.Topic) ([]models.Post, error) {
	var payload topicResponse
	if err := c.getJSON(ctx, utils.JoinPath(c.BaseURL, "t", topic.TopicID+".json"), &payload); err != nil {
		return nil, fmt.Errorf("topic %s: %w", topic.TopicID, err)
	}

	posts := make([]models.Post, 0, len(payload.PostStream.Posts))
	for _, p := range payload.PostStream.Posts {
		posts = append(posts, toPost(topic, p))
	}
	return posts, nil
}

func toPost(topic models.Topic, p postPayload) models.Post {
	post := models.Post{
		TopicID:    topic.TopicID,
		TopicTitle: topic.Title,
		TopicURL:   topic.URL,
		PostID:     p.ID,
		PostNumber: p.PostNumber,
		Username:   p.Username,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Raw != nil {
		post.RawContent = *p.Raw
	}
	if p.Cooked != nil {
		post.CookedContent = *p.Cooked
	}
	if p.ReplyCount != nil {
		post.ReplyCount = *p.ReplyCount
	}
	if len(p.ActionsSummary) > 0 && p.ActionsSummary[0].Count != nil {
		post.LikeCount = *p.ActionsSummary[0].Count
	}
	return post
}

// JSONCollector discovers topics through the category's JSON endpoint
type JSONCollector struct {
	Client      *DiscourseClient
	CategoryURL string
}

func (j *JSONCollector) Name() string {
	return "discourse-json"
}

func (j *JSONCollector) Collect(ctx context.Context) ([]models.Topic, error) {
	topics, err := j.Client.CategoryTopics(ctx, j.CategoryURL)
	if err != nil {
		return nil, err
	}
	slog.Info("category json listed topics", "url", j.CategoryURL, "count", len(topics))
	return topics, nil
}
