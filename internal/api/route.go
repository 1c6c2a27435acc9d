package api

import (
	"SentimentTech/internal/api/config"
	"SentimentTech/internal/api/middleware"
	"SentimentTech/internal/pkg/logger"
	"SentimentTech/internal/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, metrics *monitoring.Collector, cfg *config.Config) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies(cfg.Server.TrustedProxies)

	// TraceId & Logger & CORS & Metrics
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware("/health", "/metrics"))
	r.Use(middleware.CORSMiddleware())
	r.Use(metrics.Middleware())
	logger.SetupGin(r, cfg.Logstash.Index)

	r.GET("/", group.SystemHandler.Root)
	r.GET("/health", group.SystemHandler.Health)
	r.GET("/metrics", metrics.Handler())

	dashboardGroup := r.Group("/dashboard")
	{
		dashboardGroup.GET("/stocks/:symbol/posts", group.FeedHandler.Page)
	}

	apiGroup := r.Group("/api")
	{
		stockGroup := apiGroup.Group("/stocks/:symbol")
		{
			stockGroup.GET("", group.StockHandler.GetStock)
			stockGroup.GET("/price", group.StockHandler.GetPrice)
			stockGroup.GET("/sentiment", group.StockHandler.GetSentiment)
			stockGroup.GET("/reddit", group.RedditHandler.GetPosts)
		}

		trendingGroup := apiGroup.Group("/trending")
		{
			trendingGroup.GET("/stocks", group.TrendingHandler.GetTrendingStocks)
			trendingGroup.GET("/topics", group.TrendingHandler.GetTrendingTopics)
		}

		apiGroup.GET("/feed/:symbol", group.FeedHandler.View)
	}

	return r
}
