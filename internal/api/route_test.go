package api

import (
	"SentimentTech/internal/api/config"
	"SentimentTech/internal/api/handler"
	"SentimentTech/internal/pkg/feed"
	"SentimentTech/internal/pkg/monitoring"
	"SentimentTech/internal/pkg/reddit"
	"SentimentTech/internal/pkg/redis"
	"SentimentTech/internal/pkg/swr"
	"SentimentTech/internal/pkg/upstream"
	"SentimentTech/internal/repository"
	"SentimentTech/internal/service"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSearcher answers per symbol; symbols in gates block until their gate closes.
type stubSearcher struct {
	gates map[string]chan struct{}
}

func (s *stubSearcher) SearchTicker(ctx context.Context, symbol string) ([]reddit.Comment, error) {
	if gate, ok := s.gates[symbol]; ok {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	switch symbol {
	case "FAIL":
		return nil, errors.New("status 503")
	case "QUIET":
		return nil, nil
	}
	return []reddit.Comment{
		{ID: "p1", Author: "investor123", Content: "$" + symbol + " looks strong", Upvotes: 42, Replies: 7,
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Sentiment: "positive"},
		{ID: "p2", Author: "bear", Content: "not convinced", Upvotes: 3, Age: "2h ago"},
	}, nil
}

type testApp struct {
	router   http.Handler
	searcher *stubSearcher
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	redis.SetClient(client)

	app := &testApp{searcher: &stubSearcher{gates: map[string]chan struct{}{}}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.router.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Upstream.BaseURL = srv.URL
	cfg.Upstream.Retries = 0

	metrics := monitoring.NewCollector("sentiment-tech")
	marketRepo := repository.NewMarketRepo()
	redditSvc := service.NewRedditService(app.searcher, time.Minute)
	feedSvc := service.NewFeedService(
		upstream.NewClient(cfg.Upstream),
		swr.Options{DedupeInterval: time.Minute, RequestTimeout: 5 * time.Second},
		metrics.CacheHooks("reddit_posts"),
		feed.PolicyKeep,
	)

	app.router = SetupRouter(&HandlersGroup{
		SystemHandler:   handler.NewSystemHandler(),
		StockHandler:    handler.NewStockHandler(service.NewStockService(marketRepo, redditSvc)),
		RedditHandler:   handler.NewRedditHandler(redditSvc),
		TrendingHandler: handler.NewTrendingHandler(service.NewTrendingService(marketRepo)),
		FeedHandler:     handler.NewFeedHandler(feedSvc, 3*time.Second),
	}, metrics, cfg)
	return app
}

func (a *testApp) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestStockRoutes(t *testing.T) {
	app := newTestApp(t)

	env := decodeEnvelope(t, app.get(t, "/api/stocks/aapl"))
	assert.Equal(t, 200, env.Code)
	var stock map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &stock))
	assert.Equal(t, "AAPL", stock["symbol"])
	assert.Equal(t, 198.14, stock["price"])

	env = decodeEnvelope(t, app.get(t, "/api/stocks/zzz"))
	assert.Equal(t, 404, env.Code)
	assert.Equal(t, "Stock zzz not found", env.Message)

	env = decodeEnvelope(t, app.get(t, "/api/stocks/AAPL/price?interval=1W"))
	assert.Equal(t, 200, env.Code)
	var price struct {
		Interval string           `json:"interval"`
		Data     []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &price))
	assert.Equal(t, "1W", price.Interval)
	assert.Len(t, price.Data, 5)

	env = decodeEnvelope(t, app.get(t, "/api/stocks/AAPL/price?interval=2D"))
	assert.Equal(t, 400, env.Code)
	assert.Equal(t, service.ErrIntervalInvalid.Error(), env.Message)

	env = decodeEnvelope(t, app.get(t, "/api/stocks/AAPL/sentiment"))
	assert.Equal(t, 200, env.Code)
	assert.Contains(t, string(env.Data), `"overall_sentiment"`)
	assert.Contains(t, string(env.Data), `"investor123"`)
}

func TestTrendingRoutes(t *testing.T) {
	app := newTestApp(t)

	env := decodeEnvelope(t, app.get(t, "/api/trending/stocks"))
	assert.Contains(t, string(env.Data), `"NVDA"`)
	assert.Contains(t, string(env.Data), `"last_updated"`)

	env = decodeEnvelope(t, app.get(t, "/api/trending/topics"))
	assert.Contains(t, string(env.Data), `"Interest Rates"`)
}

func TestRedditRouteReturnsBareRecords(t *testing.T) {
	app := newTestApp(t)

	w := app.get(t, "/api/stocks/aapl/reddit")
	require.Equal(t, http.StatusOK, w.Code)
	var records []feed.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, 42, records[0].Likes)
	assert.Equal(t, 7, records[0].Replies)
	assert.Equal(t, "2024-01-01T00:00:00Z", records[0].Timestamp)
	assert.Equal(t, "reddit", records[0].Source)
	assert.Equal(t, []string{"AAPL"}, records[0].StockMentions)
	assert.Nil(t, records[1].StockMentions)
}

func TestRedditRouteFailureIsNon2xx(t *testing.T) {
	app := newTestApp(t)

	w := app.get(t, "/api/stocks/FAIL/reddit")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Reddit API error: status 503"}`, w.Body.String())
}

func pageDoc(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return doc
}

func TestDashboardPageRendersPosts(t *testing.T) {
	app := newTestApp(t)

	doc := pageDoc(t, app.get(t, "/dashboard/stocks/aapl/posts"))
	assert.Equal(t, "ready", doc.Find(".post-feed").AttrOr("data-state", ""))
	items := doc.Find("ul.post-list > li.post")
	require.Equal(t, 2, items.Length())
	assert.Equal(t, "investor123", strings.TrimSpace(items.First().Find(".post-author").Text()))
	assert.Contains(t, items.First().Find(".post-content").Text(), "$AAPL looks strong")
}

func TestDashboardPageEmptyAndError(t *testing.T) {
	app := newTestApp(t)

	doc := pageDoc(t, app.get(t, "/dashboard/stocks/quiet/posts"))
	assert.Equal(t, "empty", doc.Find(".post-feed").AttrOr("data-state", ""))
	assert.Equal(t, "No Reddit posts found for quiet.", strings.TrimSpace(doc.Find(".feed-empty").Text()))

	doc = pageDoc(t, app.get(t, "/dashboard/stocks/fail/posts"))
	assert.Equal(t, "error", doc.Find(".post-feed").AttrOr("data-state", ""))
	assert.Equal(t, "Error loading Reddit posts: Request failed with status code 500",
		strings.TrimSpace(doc.Find(".feed-error").Text()))
}

func TestDashboardFragmentWithoutWaitShowsLoading(t *testing.T) {
	app := newTestApp(t)
	gate := make(chan struct{})
	app.searcher.gates["SLOW"] = gate
	defer close(gate)

	w := app.get(t, "/dashboard/stocks/slow/posts?wait=0&fragment=1")
	doc := pageDoc(t, w)
	assert.Equal(t, "loading", doc.Find(".post-feed").AttrOr("data-state", ""))
	assert.Equal(t, 1, doc.Find(".feed-loading").Length())
	assert.Equal(t, 0, doc.Find("h1").Length(), "fragment has no page chrome")
}

func TestFeedJSONRoute(t *testing.T) {
	app := newTestApp(t)

	env := decodeEnvelope(t, app.get(t, "/api/feed/msft"))
	var v feed.View
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.Equal(t, feed.StateReady, v.State)
	assert.Equal(t, "msft", v.Symbol)
	require.Len(t, v.Items, 2)
	assert.True(t, v.Items[0].TimestampValid)
}

func TestFeedKeepsRequestedSymbol(t *testing.T) {
	app := newTestApp(t)

	env := decodeEnvelope(t, app.get(t, "/api/feed/quiet?wait=2000"))
	assert.Equal(t, 200, env.Code)
	var v feed.View
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.Equal(t, feed.StateEmpty, v.State)
	assert.Equal(t, "quiet", v.Symbol)
	assert.Equal(t, "No Reddit posts found for quiet.", v.Message)
}

func TestFeedDoesNotValidateSymbolFormat(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/feed/ABCDEFGHIJKLM?wait=2000", "/api/feed/%E6%97%A5%E6%9C%AC?wait=2000"} {
		env := decodeEnvelope(t, app.get(t, path))
		assert.Equal(t, 200, env.Code, path)
		var v feed.View
		require.NoError(t, json.Unmarshal(env.Data, &v), path)
		// reddit 接口会拒绝这类代码，feed 本身照常发起请求
		assert.Equal(t, feed.StateError, v.State, path)
		assert.Equal(t, "Error loading Reddit posts: Request failed with status code 400", v.Message, path)
	}

	env := decodeEnvelope(t, app.get(t, "/api/feed/ABCDEFGHIJKLM?wait=0"))
	var v feed.View
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.Equal(t, "ABCDEFGHIJKLM", v.Symbol)
}

func TestSystemRoutes(t *testing.T) {
	app := newTestApp(t)

	w := app.get(t, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	w = app.get(t, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"SentimentTech API"`)

	app.get(t, "/api/trending/stocks")
	w = app.get(t, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sentiment_tech_http_requests_total")
}
