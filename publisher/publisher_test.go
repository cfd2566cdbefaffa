package publisher

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"discourse-feed/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPosts() []models.Post {
	return []models.Post{
		{
			TopicID:       "155940",
			TopicTitle:    "Token Calculation for GPT Models",
			TopicURL:      "https://forum.example.com/t/token-calculation/155940",
			PostID:        models.Ptr(models.NumericID(2)),
			PostNumber:    models.Ptr(1),
			Username:      models.Ptr("ta_assistant"),
			CreatedAt:     models.Ptr("2025-04-12T14:30:00Z"),
			UpdatedAt:     models.Ptr("2025-04-12T14:30:00Z"),
			RawContent:    "私は静かな図書館で本を読みながら",
			CookedContent: "<p>Use a tokenizer & multiply.</p>",
			ReplyCount:    3,
			LikeCount:     5,
		},
		{
			TopicID:    "155941",
			TopicTitle: "Assignment Submission Guidelines",
			TopicURL:   "https://forum.example.com/t/assignment-guidelines/155941",
			PostNumber: models.Ptr(2),
		},
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "posts.json")

	require.NoError(t, WriteJSON(path, testPosts()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "私は静かな図書館で本を読みながら")
	assert.Contains(t, text, "<p>Use a tokenizer & multiply.</p>")
	assert.Contains(t, text, "\n  {\n    \"topic_id\": \"155940\",")
	assert.Contains(t, text, "\"username\": null")
	assert.Less(t, strings.Index(text, "\"topic_id\""), strings.Index(text, "\"like_count\""))

	var decoded []models.Post
	require.NoError(t, json.Unmarshal(data, &decoded))
	if diff := cmp.Diff(testPosts(), decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSON_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")

	require.NoError(t, WriteJSON(path, testPosts()))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, WriteJSON(path, testPosts()))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWriteJSON_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")

	require.NoError(t, WriteJSON(path, testPosts()))
	require.NoError(t, WriteJSON(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.csv")

	require.NoError(t, WriteCSV(path, testPosts()))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "155940", rows[1][0])
	assert.Equal(t, "2", rows[1][3])
	assert.Equal(t, "5", rows[1][11])
	assert.Equal(t, "", rows[2][5])
	assert.Equal(t, "2", rows[2][4])
}

func TestWriteJSON_LineSeparatorsUnescaped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	posts := []models.Post{{
		TopicID:       "1",
		TopicTitle:    "line\u2028separator",
		TopicURL:      "https://forum.example.com/t/line/1",
		PostNumber:    models.Ptr(1),
		RawContent:    "para\u2029graph",
		CookedContent: `<code>C:\u2028dir</code>`,
	}}

	require.NoError(t, WriteJSON(path, posts))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "\"topic_title\": \"line\u2028separator\"")
	assert.Contains(t, text, "\"raw_content\": \"para\u2029graph\"")
	assert.Contains(t, text, `"cooked_content": "<code>C:\\u2028dir</code>"`)

	var decoded []models.Post
	require.NoError(t, json.Unmarshal(data, &decoded))
	if diff := cmp.Diff(posts, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
