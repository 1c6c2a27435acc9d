package service

import (
	"SentimentTech/internal/pkg/feed"
	"SentimentTech/internal/pkg/logger"
	"SentimentTech/internal/pkg/swr"
	"context"
	log "log/slog"
	"strings"
	"time"
)

// PostFetcher 从上游读取帖子
type PostFetcher interface {
	FetchPosts(ctx context.Context, target string) ([]feed.Record, error)
}

type FeedService interface {
	// View 渲染 symbol 的帖子列表，最多等待 wait 让请求落定
	View(ctx context.Context, symbol string, wait time.Duration) feed.View
	// RevalidateAll 刷新缓存中的所有目标，从未成功过的失败目标直接丢弃
	RevalidateAll(ctx context.Context) int
	// Warm 预热给定股票
	Warm(ctx context.Context, symbols []string)
}

type feedServiceImpl struct {
	cache  *swr.Cache[[]feed.Record]
	policy feed.TimestampPolicy
}

func NewFeedService(fetcher PostFetcher, opts swr.Options, hooks swr.MetricsHooks, policy feed.TimestampPolicy) FeedService {
	return &feedServiceImpl{
		cache:  swr.New[[]feed.Record](fetcher.FetchPosts, opts, hooks),
		policy: policy,
	}
}

func (s *feedServiceImpl) View(ctx context.Context, symbol string, wait time.Duration) feed.View {
	ctx = logger.WithSymbol(ctx, symbol)
	f := feed.New(s.cache, s.policy)
	f.Mount(ctx, symbol)
	defer f.Unmount()

	if wait <= 0 {
		return f.View()
	}
	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	v := f.Await(waitCtx)
	if v.State == feed.StateError {
		log.WarnContext(ctx, "feed settled with error", "message", v.Message)
	}
	return v
}

func (s *feedServiceImpl) RevalidateAll(ctx context.Context) int {
	revalidated, dropped := 0, 0
	for _, key := range s.cache.Keys() {
		snap, ok := s.cache.Peek(key)
		if !ok {
			continue
		}
		// 未校验的 symbol 拼错后只会一直失败，不再定时重试
		if !snap.HasData && snap.Err != nil && !snap.Validating {
			s.cache.Delete(key)
			dropped++
			continue
		}
		s.cache.Revalidate(ctx, key)
		revalidated++
	}
	if dropped > 0 {
		log.InfoContext(ctx, "dropped failed feed targets", "count", dropped)
	}
	return revalidated
}

func (s *feedServiceImpl) Warm(ctx context.Context, symbols []string) {
	seen := make(map[string]struct{}, len(symbols))
	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		s.cache.Get(ctx, feed.Target(sym))
	}
}
