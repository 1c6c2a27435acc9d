package api

import "SentimentTech/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	SystemHandler   *handler.SystemHandler
	StockHandler    *handler.StockHandler
	RedditHandler   *handler.RedditHandler
	TrendingHandler *handler.TrendingHandler
	FeedHandler     *handler.FeedHandler
}
