package wire

import (
	"SentimentTech/internal/api"
	"SentimentTech/internal/api/config"
	"SentimentTech/internal/api/handler"
	"SentimentTech/internal/job"
	"SentimentTech/internal/pkg/consts"
	"SentimentTech/internal/pkg/cron"
	"SentimentTech/internal/pkg/feed"
	"SentimentTech/internal/pkg/monitoring"
	"SentimentTech/internal/pkg/reddit"
	"SentimentTech/internal/pkg/swr"
	"SentimentTech/internal/pkg/upstream"
	"SentimentTech/internal/repository"
	"SentimentTech/internal/service"
	"time"

	"github.com/gin-gonic/gin"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	CronMgr *cron.Manager
	Metrics *monitoring.Collector
}

func BuildApplication(cfg *config.Config) (*ApplicationContainer, error) {
	policy, err := feed.ParsePolicy(cfg.Feed.TimestampPolicy)
	if err != nil {
		return nil, err
	}

	metrics := monitoring.NewCollector(consts.ServiceName)

	marketRepo := repository.NewMarketRepo()

	redditClient := reddit.NewClient(cfg.Reddit)
	redditSvc := service.NewRedditService(redditClient, time.Duration(cfg.Reddit.CacheTTLSec)*time.Second)
	stockSvc := service.NewStockService(marketRepo, redditSvc)
	trendingSvc := service.NewTrendingService(marketRepo)

	upstreamClient := upstream.NewClient(cfg.Upstream)
	feedSvc := service.NewFeedService(
		&observedFetcher{next: upstreamClient, metrics: metrics},
		swr.Options{
			DedupeInterval: time.Duration(cfg.Feed.DedupeIntervalMs) * time.Millisecond,
			StaleTTL:       time.Duration(cfg.Feed.StaleTTLMs) * time.Millisecond,
			RequestTimeout: time.Duration(cfg.Upstream.TimeoutMs) * time.Millisecond,
			MaxEntries:     cfg.Feed.MaxEntries,
		},
		metrics.CacheHooks(consts.PostsCacheName),
		policy,
	)

	handlers := &api.HandlersGroup{
		SystemHandler:   handler.NewSystemHandler(),
		StockHandler:    handler.NewStockHandler(stockSvc),
		RedditHandler:   handler.NewRedditHandler(redditSvc),
		TrendingHandler: handler.NewTrendingHandler(trendingSvc),
		FeedHandler:     handler.NewFeedHandler(feedSvc, time.Duration(cfg.Feed.RenderWaitMs)*time.Millisecond),
	}

	router := api.SetupRouter(handlers, metrics, cfg)

	revalidateJob := job.NewFeedRevalidateJob(feedSvc, trendingSvc, cfg.Feed.WarmSymbols)
	cronMgr := cron.NewCronManager(cfg.Feed.RevalidateCron, revalidateJob)

	return &ApplicationContainer{
		Router:  router,
		CronMgr: cronMgr,
		Metrics: metrics,
	}, nil
}
