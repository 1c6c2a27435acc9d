package reddit

import (
	"SentimentTech/internal/pkg/feed"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAge(t *testing.T) {
	cases := map[string]time.Duration{
		"2h ago":  2 * time.Hour,
		"2h":      2 * time.Hour,
		"15m ago": 15 * time.Minute,
		"3d ago":  72 * time.Hour,
		" 1H ":    time.Hour,
	}
	for in, want := range cases {
		got, err := ParseAge(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "yesterday", "h ago", "2 weeks"} {
		_, err := ParseAge(in)
		assert.ErrorIs(t, err, ErrBadAge, in)
	}
}

func TestExtractMentions(t *testing.T) {
	assert.Equal(t, []string{"AAPL", "TSLA"}, ExtractMentions("loading up on $aapl and $TSLA, more $Aapl"))
	assert.Nil(t, ExtractMentions("no tickers here, just $ 5"))
}

func TestTransformFromRelativeAge(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rec, err := Transform(Comment{
		ID:        "c1",
		Author:    "investor123",
		Content:   "$AAPL services keep growing",
		Upvotes:   42,
		Replies:   7,
		Age:       "2h ago",
		Sentiment: "positive",
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "c1", rec.ID)
	assert.Equal(t, 42, rec.Likes)
	assert.Equal(t, 7, rec.Replies)
	assert.Equal(t, "2024-01-01T10:00:00Z", rec.Timestamp)
	assert.Equal(t, SourceName, rec.Source)
	assert.Equal(t, []string{"AAPL"}, rec.StockMentions)
	assert.Equal(t, "positive", rec.Sentiment)

	_, err = feed.ParseTimestamp(rec.Timestamp)
	assert.NoError(t, err, "transformed timestamps must be readable by the feed")
}

func TestTransformPrefersCreatedAt(t *testing.T) {
	created := time.Date(2023, 6, 1, 8, 30, 0, 0, time.UTC)
	rec, err := Transform(Comment{ID: "c2", CreatedAt: created, Age: "garbage"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "2023-06-01T08:30:00Z", rec.Timestamp)
	assert.Nil(t, rec.StockMentions)
	assert.Nil(t, rec.Sentiment)
}

func TestTransformBadAge(t *testing.T) {
	_, err := Transform(Comment{ID: "c3", Age: "sometime"}, time.Now())
	assert.ErrorIs(t, err, ErrBadAge)
}
