package service

import (
	"SentimentTech/internal/pkg/consts"
	"SentimentTech/internal/pkg/feed"
	"SentimentTech/internal/pkg/reddit"
	"SentimentTech/internal/pkg/redis"
	"context"
	log "log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// PostSearcher 帖子来源
type PostSearcher interface {
	SearchTicker(ctx context.Context, symbol string) ([]reddit.Comment, error)
}

type RedditService interface {
	GetPosts(ctx context.Context, symbol string) ([]feed.Record, error)
}

type redditServiceImpl struct {
	searcher PostSearcher
	ttl      time.Duration
	sf       singleflight.Group
	now      func() time.Time
}

func NewRedditService(searcher PostSearcher, ttl time.Duration) RedditService {
	return &redditServiceImpl{
		searcher: searcher,
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetPosts 先读 Redis 缓存，未命中再请求 Reddit
func (s *redditServiceImpl) GetPosts(ctx context.Context, symbol string) ([]feed.Record, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrParamInvalid
	}
	key := consts.RedditPostsKey + symbol

	var cached []feed.Record
	hit, err := redis.GetJSON(ctx, key, &cached)
	if err != nil {
		log.WarnContext(ctx, "read reddit cache failed", "key", key, "err", err)
	}
	if hit {
		if cached == nil {
			cached = []feed.Record{}
		}
		return cached, nil
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.load(ctx, symbol, key)
	})
	if err != nil {
		return nil, err
	}
	return v.([]feed.Record), nil
}

func (s *redditServiceImpl) load(ctx context.Context, symbol, key string) ([]feed.Record, error) {
	comments, err := s.searcher.SearchTicker(ctx, symbol)
	if err != nil {
		return nil, withDetail(ErrRedditUnavailable, "Reddit API error: %s", err.Error())
	}

	now := s.now()
	records := make([]feed.Record, 0, len(comments))
	for _, c := range comments {
		rec, err := reddit.Transform(c, now)
		if err != nil {
			log.WarnContext(ctx, "skip reddit post", "id", c.ID, "err", err)
			continue
		}
		records = append(records, rec)
	}

	if s.ttl > 0 {
		if err = redis.SetJSON(ctx, key, records, s.ttl); err != nil {
			log.WarnContext(ctx, "write reddit cache failed", "key", key, "err", err)
		}
	}
	return records, nil
}
