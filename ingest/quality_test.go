package ingest

import (
	"testing"

	"discourse-feed/models"

	"github.com/stretchr/testify/assert"
)

func TestValidRecord(t *testing.T) {
	valid := models.Post{TopicTitle: "Title", TopicURL: "https://forum.example.com/t/x/1", PostNumber: models.Ptr(1)}
	assert.True(t, ValidRecord(valid))

	noTitle := valid
	noTitle.TopicTitle = "  "
	assert.False(t, ValidRecord(noTitle))

	noURL := valid
	noURL.TopicURL = ""
	assert.False(t, ValidRecord(noURL))

	noNumber := valid
	noNumber.PostNumber = nil
	assert.False(t, ValidRecord(noNumber))
}

func TestKeepValid(t *testing.T) {
	posts := []models.Post{
		{TopicTitle: "A", TopicURL: "https://forum.example.com/t/a/1", PostNumber: models.Ptr(1)},
		{TopicTitle: "B", TopicURL: "https://forum.example.com/t/b/2"},
	}

	kept, dropped := KeepValid(posts)
	assert.Len(t, kept, 1)
	assert.Equal(t, "A", kept[0].TopicTitle)
	assert.Equal(t, 1, dropped)
}

func TestSampleDataIsValid(t *testing.T) {
	samples := SampleData()
	assert.Len(t, samples, 5)

	kept, dropped := KeepValid(samples)
	assert.Len(t, kept, 5)
	assert.Zero(t, dropped)

	seen := map[string]bool{}
	for _, p := range samples {
		assert.False(t, seen[p.TopicID], "duplicate sample topic %s", p.TopicID)
		seen[p.TopicID] = true
	}
}
