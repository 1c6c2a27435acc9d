package reddit

import (
	"SentimentTech/internal/api/config"
	"SentimentTech/internal/pkg/logger"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

const (
	defaultPublicURL = "https://www.reddit.com"
	defaultOAuthURL  = "https://oauth.reddit.com"
	defaultAuthURL   = "https://www.reddit.com/api/v1/access_token"
)

var ErrUnavailable = errors.New("reddit unavailable")

// listing is the envelope Reddit wraps every collection in.
type listing struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string  `json:"kind"`
			Data rawPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type rawPost struct {
	ID          string  `json:"id"`
	Author      string  `json:"author"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Body        string  `json:"body"`
	Subreddit   string  `json:"subreddit"`
	Permalink   string  `json:"permalink"`
	Ups         int     `json:"ups"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type Option func(*Client)

// WithBaseURLs points the client at other hosts, used by tests.
func WithBaseURLs(public, oauth, auth string) Option {
	return func(c *Client) {
		c.publicURL, c.oauthURL, c.authURL = public, oauth, auth
	}
}

type Client struct {
	http *resty.Client
	cfg  config.RedditConfig

	publicURL string
	oauthURL  string
	authURL   string

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewClient(cfg config.RedditConfig, opts ...Option) *Client {
	c := &Client{
		cfg:       cfg,
		publicURL: defaultPublicURL,
		oauthURL:  defaultOAuthURL,
		authURL:   defaultAuthURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = resty.New().
		SetTimeout(15*time.Second).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")
	logger.AttachResty(c.http, "reddit")
	return c
}

// SearchTicker returns recent posts mentioning symbol in the configured subreddits.
func (c *Client) SearchTicker(ctx context.Context, symbol string) ([]Comment, error) {
	base := c.publicURL
	path := "/search.json"
	req := c.http.R().SetContext(ctx)

	if c.cfg.ClientID != "" && c.cfg.ClientSecret != "" {
		token, err := c.accessToken(ctx)
		if err != nil {
			return nil, err
		}
		base, path = c.oauthURL, "/search"
		req.SetAuthToken(token)
	}
	if len(c.cfg.Subreddits) > 0 {
		path = "/r/" + strings.Join(c.cfg.Subreddits, "+") + path
	}

	limit := c.cfg.Limit
	if limit <= 0 {
		limit = 25
	}
	resp, err := req.SetQueryParams(map[string]string{
		"q":           fmt.Sprintf("%s OR $%s", symbol, symbol),
		"restrict_sr": "1",
		"sort":        "new",
		"t":           "week",
		"limit":       strconv.Itoa(limit),
		"raw_json":    "1",
	}).Get(base + path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}

	var l listing
	if err = json.Unmarshal(resp.Body(), &l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	comments := make([]Comment, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		comments = append(comments, fromRaw(child.Data))
	}
	return comments, nil
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.expiresAt) {
		return c.token, nil
	}

	var tok tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret).
		SetFormDataFromValues(url.Values{"grant_type": {"client_credentials"}}).
		Post(c.authURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: token status %d", ErrUnavailable, resp.StatusCode())
	}
	if err = json.Unmarshal(resp.Body(), &tok); err != nil || tok.AccessToken == "" {
		return "", fmt.Errorf("%w: bad token response", ErrUnavailable)
	}

	// 提前一分钟刷新
	ttl := time.Duration(tok.ExpiresIn)*time.Second - time.Minute
	if ttl <= 0 {
		ttl = time.Minute
	}
	c.token, c.expiresAt = tok.AccessToken, time.Now().Add(ttl)
	return c.token, nil
}

func fromRaw(p rawPost) Comment {
	content := p.Body
	if content == "" {
		content = strings.TrimSpace(strings.Join([]string{p.Title, p.Selftext}, "\n\n"))
	}
	var created time.Time
	if p.CreatedUTC > 0 {
		sec := int64(p.CreatedUTC)
		created = time.Unix(sec, 0).UTC()
	}
	return Comment{
		ID:        p.ID,
		Author:    p.Author,
		Content:   content,
		Upvotes:   p.Ups,
		Replies:   p.NumComments,
		CreatedAt: created,
		Source:    SourceName,
		Subreddit: p.Subreddit,
	}
}
