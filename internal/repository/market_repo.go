package repository

import (
	"SentimentTech/internal/model"
	"context"
	"strings"
)

type MarketRepo interface {
	GetStockBySymbol(ctx context.Context, symbol string) (*model.Stock, error)
	GetSentiment(ctx context.Context, symbol string) (*model.SentimentSnapshot, error)
	ListTrendingStocks(ctx context.Context) ([]*model.TrendingStock, error)
	ListTrendingTopics(ctx context.Context) ([]*model.TrendingTopic, error)
}

// MarketRepoImpl 静态行情目录，没有行情数据源时使用
type MarketRepoImpl struct {
	stocks map[string]model.Stock
}

func NewMarketRepo() MarketRepo {
	return &MarketRepoImpl{
		stocks: map[string]model.Stock{
			"AAPL": {
				Symbol:        "AAPL",
				Name:          "Apple Inc.",
				Price:         198.14,
				Change:        2.34,
				ChangePercent: 1.18,
				Volume:        "45.3M",
				MarketCap:     "2.87T",
				PERatio:       30.21,
			},
			"MSFT": {
				Symbol:        "MSFT",
				Name:          "Microsoft Corporation",
				Price:         417.23,
				Change:        -1.85,
				ChangePercent: -0.44,
				Volume:        "22.1M",
				MarketCap:     "3.1T",
				PERatio:       35.12,
			},
		},
	}
}

// GetStockBySymbol 不存在时返回 nil, nil
func (s *MarketRepoImpl) GetStockBySymbol(_ context.Context, symbol string) (*model.Stock, error) {
	stock, ok := s.stocks[strings.ToUpper(symbol)]
	if !ok {
		return nil, nil
	}
	return &stock, nil
}

func (s *MarketRepoImpl) GetSentiment(_ context.Context, _ string) (*model.SentimentSnapshot, error) {
	return &model.SentimentSnapshot{
		Overall: model.SentimentScore{Score: 0.65, Magnitude: 0.8, Label: "positive"},
		Sources: map[string]model.SentimentScore{
			"reddit":  {Score: 0.45, Magnitude: 0.9, Label: "neutral"},
			"twitter": {Score: 0.75, Magnitude: 0.85, Label: "positive"},
			"news":    {Score: 0.68, Magnitude: 0.7, Label: "positive"},
		},
		TrendingTopics: []string{"earnings", "iphone", "artificial intelligence", "vision pro", "tariffs"},
		RecentPosts: []model.SocialPost{
			{
				ID:        "post1",
				Platform:  "reddit",
				Content:   "Apple's services business continues to grow impressively",
				Age:       "2h ago",
				Sentiment: &model.SentimentScore{Score: 0.82, Magnitude: 0.7, Label: "positive"},
				URL:       "https://reddit.com/r/investing/comments/123456",
				Author:    "investor123",
				Likes:     ptrInt(42),
			},
			{
				ID:        "post2",
				Platform:  "twitter",
				Content:   "Vision Pro sales seem to be below expectations. Not a good sign.",
				Age:       "5h ago",
				Sentiment: &model.SentimentScore{Score: -0.45, Magnitude: 0.65, Label: "negative"},
				Author:    "@techanalyst",
				Likes:     ptrInt(118),
			},
		},
	}, nil
}

func (s *MarketRepoImpl) ListTrendingStocks(_ context.Context) ([]*model.TrendingStock, error) {
	return []*model.TrendingStock{
		{Symbol: "NVDA", Name: "NVIDIA Corporation", SentimentScore: 0.87, SentimentLabel: "positive", MentionCount: 1245, PriceChange24h: 2.3},
		{Symbol: "AAPL", Name: "Apple Inc.", SentimentScore: 0.65, SentimentLabel: "positive", MentionCount: 986, PriceChange24h: 1.18},
		{Symbol: "TSLA", Name: "Tesla, Inc.", SentimentScore: 0.42, SentimentLabel: "neutral", MentionCount: 875, PriceChange24h: -0.8},
	}, nil
}

func (s *MarketRepoImpl) ListTrendingTopics(_ context.Context) ([]*model.TrendingTopic, error) {
	return []*model.TrendingTopic{
		{Topic: "Artificial Intelligence", SentimentScore: 0.78, MentionCount: 2341, RelatedStocks: []string{"NVDA", "MSFT", "GOOG"}},
		{Topic: "Interest Rates", SentimentScore: -0.25, MentionCount: 1872, RelatedStocks: []string{"JPM", "GS", "BAC"}},
		{Topic: "Semiconductor Shortage", SentimentScore: 0.15, MentionCount: 1544, RelatedStocks: []string{"INTC", "AMD", "TSM"}},
	}, nil
}

func ptrInt(i int) *int {
	return &i
}
