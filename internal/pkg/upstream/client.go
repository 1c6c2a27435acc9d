package upstream

import (
	"SentimentTech/internal/api/config"
	"SentimentTech/internal/pkg/feed"
	"SentimentTech/internal/pkg/logger"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

const errNotArray = "unexpected response body: expected a JSON array"

// FetchError is any failed read of the posts endpoint.
type FetchError struct {
	Status  int
	Message string
}

func (e *FetchError) Error() string {
	return e.Message
}

type Client struct {
	http     *resty.Client
	executor failsafe.Executor[*resty.Response]
}

func NewClient(cfg config.UpstreamConfig) *Client {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	logger.AttachResty(httpClient, "upstream")

	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}
	delay := time.Duration(cfg.RetryDelayMs) * time.Millisecond
	if delay <= 0 {
		delay = 200 * time.Millisecond
	}
	retry := retrypolicy.NewBuilder[*resty.Response]().
		HandleIf(shouldRetry).
		WithMaxRetries(retries).
		WithDelay(delay).
		ReturnLastFailure().
		Build()

	return &Client{
		http:     httpClient,
		executor: failsafe.With[*resty.Response](retry),
	}
}

// 网络错误与 5xx 重试，4xx 直接返回
func shouldRetry(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp != nil && resp.StatusCode() >= http.StatusInternalServerError
}

// FetchPosts reads target (a path such as /api/stocks/ABC/reddit) and decodes the records.
func (c *Client) FetchPosts(ctx context.Context, target string) ([]feed.Record, error) {
	resp, err := c.executor.WithContext(ctx).Get(func() (*resty.Response, error) {
		return c.http.R().SetContext(ctx).Get(target)
	})
	if err != nil {
		return nil, &FetchError{Message: err.Error()}
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &FetchError{
			Status:  resp.StatusCode(),
			Message: fmt.Sprintf("Request failed with status code %d", resp.StatusCode()),
		}
	}

	var records []feed.Record
	if err = json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, &FetchError{Status: resp.StatusCode(), Message: err.Error()}
	}
	// null 等非数组的合法 JSON 也算坏响应
	if !bytes.HasPrefix(bytes.TrimSpace(resp.Body()), []byte("[")) {
		return nil, &FetchError{Status: resp.StatusCode(), Message: errNotArray}
	}
	if records == nil {
		records = []feed.Record{}
	}
	return records, nil
}
