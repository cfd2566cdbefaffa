package ingest

import (
	"context"

	"discourse-feed/models"
)

// Collector is one strategy for discovering the topics of a category.
// An empty result with a nil error means "nothing found, try the next one".
type Collector interface {
	Name() string
	Collect(ctx context.Context) ([]models.Topic, error)
}

// PostSource fetches the posts of one topic
type PostSource interface {
	TopicPosts(ctx context.Context, topic models.Topic) ([]models.Post, error)
}
