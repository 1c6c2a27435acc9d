package service

import (
	"SentimentTech/internal/api/dto"
	"SentimentTech/internal/pkg/consts"
	"SentimentTech/internal/pkg/redis"
	"SentimentTech/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
)

const trendingTTL = time.Minute

type TrendingService interface {
	GetTrendingStocks(ctx context.Context) (*dto.TrendingStocksDTO, error)
	GetTrendingTopics(ctx context.Context) (*dto.TrendingTopicsDTO, error)
	TrendingSymbols(ctx context.Context) ([]string, error)
}

type trendingServiceImpl struct {
	marketRepo repository.MarketRepo
	now        func() time.Time
}

func NewTrendingService(marketRepo repository.MarketRepo) TrendingService {
	return &trendingServiceImpl{
		marketRepo: marketRepo,
		now:        time.Now,
	}
}

func (s *trendingServiceImpl) GetTrendingStocks(ctx context.Context) (*dto.TrendingStocksDTO, error) {
	out := &dto.TrendingStocksDTO{}
	if hit := s.readCache(ctx, consts.TrendingStocksKey, out); hit {
		return out, nil
	}

	stocks, err := s.marketRepo.ListTrendingStocks(ctx)
	if err != nil {
		return nil, err
	}
	out.TrendingStocks = make([]dto.TrendingStockDTO, 0, len(stocks))
	if err = copier.Copy(&out.TrendingStocks, &stocks); err != nil {
		return nil, err
	}
	out.LastUpdated = s.now().Format(time.RFC3339)
	s.writeCache(ctx, consts.TrendingStocksKey, out)
	return out, nil
}

func (s *trendingServiceImpl) GetTrendingTopics(ctx context.Context) (*dto.TrendingTopicsDTO, error) {
	out := &dto.TrendingTopicsDTO{}
	if hit := s.readCache(ctx, consts.TrendingTopicsKey, out); hit {
		return out, nil
	}

	topics, err := s.marketRepo.ListTrendingTopics(ctx)
	if err != nil {
		return nil, err
	}
	out.TrendingTopics = make([]dto.TrendingTopicDTO, 0, len(topics))
	if err = copier.CopyWithOption(&out.TrendingTopics, &topics, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	out.LastUpdated = s.now().Format(time.RFC3339)
	s.writeCache(ctx, consts.TrendingTopicsKey, out)
	return out, nil
}

// TrendingSymbols 热门股票代码，供预热任务使用
func (s *trendingServiceImpl) TrendingSymbols(ctx context.Context) ([]string, error) {
	stocks, err := s.GetTrendingStocks(ctx)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(stocks.TrendingStocks))
	for _, st := range stocks.TrendingStocks {
		symbols = append(symbols, st.Symbol)
	}
	return symbols, nil
}

func (s *trendingServiceImpl) readCache(ctx context.Context, key string, out any) bool {
	hit, err := redis.GetJSON(ctx, key, out)
	if err != nil {
		log.WarnContext(ctx, "read trending cache failed", "key", key, "err", err)
		return false
	}
	return hit
}

func (s *trendingServiceImpl) writeCache(ctx context.Context, key string, v any) {
	if err := redis.SetJSON(ctx, key, v, trendingTTL); err != nil {
		log.WarnContext(ctx, "write trending cache failed", "key", key, "err", err)
	}
}
