package job

import (
	"SentimentTech/internal/pkg/consts"
	"SentimentTech/internal/pkg/logger"
	"SentimentTech/internal/pkg/redis"
	"SentimentTech/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const warmLockTTL = 50 * time.Second

type FeedRevalidateJob struct {
	feedSvc     service.FeedService
	trendingSvc service.TrendingService
	warmSymbols []string
}

func NewFeedRevalidateJob(feedSvc service.FeedService, trendingSvc service.TrendingService, warmSymbols []string) *FeedRevalidateJob {
	return &FeedRevalidateJob{
		feedSvc:     feedSvc,
		trendingSvc: trendingSvc,
		warmSymbols: warmSymbols,
	}
}

// Run 刷新本实例缓存的所有目标；预热会打到上游，只由持锁实例执行
func (s *FeedRevalidateJob) Run() {
	ctx := logger.WithTrace(context.Background(), "job-feed-"+uuid.NewString())

	n := s.feedSvc.RevalidateAll(ctx)

	token := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.FeedRevalidateLock, token, warmLockTTL, 1)
	if err != nil {
		log.ErrorContext(ctx, "acquire feed warm lock error", "err", err)
		return
	}
	if !locked {
		log.InfoContext(ctx, "revalidate feed success", "revalidated", n, "warmed", 0)
		return
	}
	defer redis.UnLock(ctx, consts.FeedRevalidateLock, token)

	symbols := append([]string{}, s.warmSymbols...)
	trending, err := s.trendingSvc.TrendingSymbols(ctx)
	if err != nil {
		log.WarnContext(ctx, "load trending symbols error", "err", err)
	}
	symbols = append(symbols, trending...)
	s.feedSvc.Warm(ctx, symbols)

	log.InfoContext(ctx, "revalidate feed success", "revalidated", n, "warmed", len(symbols))
}
