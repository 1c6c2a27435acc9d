package feed

import (
	"bytes"
	"errors"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderDoc(t *testing.T, v View) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, v))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestRenderReadyItems(t *testing.T) {
	second := sampleRecord()
	second.ID = "2"
	second.Author = "u2"
	second.Sentiment = map[string]any{"label": "neutral", "score": 0.1}
	v := Select("ABC", Succeeded([]Record{sampleRecord(), second}), PolicyKeep)

	doc := renderDoc(t, v)

	section := doc.Find("section.post-feed")
	assert.Equal(t, "ready", section.AttrOr("data-state", ""))
	items := doc.Find("li.post")
	require.Equal(t, 2, items.Length())

	first := items.First()
	assert.Equal(t, "1", first.AttrOr("data-id", ""))
	assert.Equal(t, "u1", first.Find(".post-author").Text())
	assert.Equal(t, "hi", first.Find(".post-content").Text())
	assert.Equal(t, "2024-01-01T00:00:00Z", first.Find("time").AttrOr("datetime", ""))
	assert.Equal(t, "positive", first.Find(".post-sentiment").Text())
	assert.Equal(t, "$ABC", first.Find(".post-mention").Text())

	assert.Equal(t, "neutral", items.Eq(1).Find(".post-sentiment").Text())
}

func TestRenderEmpty(t *testing.T) {
	doc := renderDoc(t, Select("ABC", Succeeded(nil), PolicyKeep))
	assert.Equal(t, 0, doc.Find("li.post").Length())
	assert.Contains(t, doc.Find(".feed-empty").Text(), "No Reddit posts found for ABC.")
}

func TestRenderError(t *testing.T) {
	doc := renderDoc(t, Select("ABC", Failed(errors.New("Network Error")), PolicyKeep))
	assert.Equal(t, 0, doc.Find("li.post").Length())
	assert.Contains(t, doc.Find(".feed-error").Text(), "Network Error")
}

func TestRenderLoading(t *testing.T) {
	doc := renderDoc(t, Select("ABC", Loading(), PolicyKeep))
	assert.Equal(t, 1, doc.Find(".feed-loading").Length())
	assert.Equal(t, 0, doc.Find(".feed-error, .feed-empty, li.post").Length())
}

func TestRenderInvalidTimestampShowsUnknownDate(t *testing.T) {
	bad := sampleRecord()
	bad.Timestamp = "nope"
	doc := renderDoc(t, Select("ABC", Succeeded([]Record{bad}), PolicyKeep))

	tm := doc.Find("li.post time")
	assert.Equal(t, unknownDate, tm.Text())
	_, has := tm.Attr("datetime")
	assert.False(t, has)
}

func TestRenderEscapesContent(t *testing.T) {
	rec := sampleRecord()
	rec.Content = `<script>alert("x")</script>`
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Select("ABC", Succeeded([]Record{rec}), PolicyKeep)))
	assert.NotContains(t, buf.String(), "<script>")
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, Select("ABC", Succeeded(nil), PolicyKeep)))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Contains(t, doc.Find("h1").Text(), "ABC")
	assert.Equal(t, 1, doc.Find("section.post-feed").Length())
}

func TestSentimentLabel(t *testing.T) {
	assert.Equal(t, "", SentimentLabel(nil))
	assert.Equal(t, "positive", SentimentLabel("positive"))
	assert.Equal(t, "bearish", SentimentLabel(map[string]any{"label": "bearish"}))
	assert.Equal(t, "0.5", SentimentLabel(0.5))
}
