package service

import (
	"SentimentTech/internal/api/dto"
	"SentimentTech/internal/model"
	"SentimentTech/internal/pkg/consts"
	"SentimentTech/internal/pkg/feed"
	"SentimentTech/internal/pkg/reddit"
	"SentimentTech/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"math"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"golang.org/x/sync/errgroup"
)

const (
	basePrice      = 198.14
	maxLivePosts   = 5
	intradayPoints = 8
)

var intervalPoints = map[string]int{
	"1W": 5,
	"1M": 22,
	"3M": 66,
	"1Y": 52,
	"5Y": 60,
}

type StockService interface {
	GetStock(ctx context.Context, symbol string) (*dto.StockDTO, error)
	GetPrice(ctx context.Context, symbol, interval string) (*dto.StockPriceDTO, error)
	GetSentiment(ctx context.Context, symbol string) (*dto.SentimentDTO, error)
}

type stockServiceImpl struct {
	marketRepo repository.MarketRepo
	redditSvc  RedditService
	now        func() time.Time
}

func NewStockService(marketRepo repository.MarketRepo, redditSvc RedditService) StockService {
	return &stockServiceImpl{
		marketRepo: marketRepo,
		redditSvc:  redditSvc,
		now:        time.Now,
	}
}

// GetStock 股票代码不区分大小写
func (s *stockServiceImpl) GetStock(ctx context.Context, symbol string) (*dto.StockDTO, error) {
	stock, err := s.marketRepo.GetStockBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, withDetail(ErrStockNotFound, "Stock %s not found", symbol)
	}
	out := &dto.StockDTO{}
	if err = copier.Copy(out, stock); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPrice 生成指定区间的价格序列
func (s *stockServiceImpl) GetPrice(_ context.Context, symbol, interval string) (*dto.StockPriceDTO, error) {
	if interval == "" {
		interval = consts.DefaultInterval
	}

	var points []dto.PricePointDTO
	if interval == consts.DefaultInterval {
		points = make([]dto.PricePointDTO, 0, intradayPoints)
		for i := 0; i < intradayPoints; i++ {
			change := float64(i-4) * 0.25
			volume := int64(1_000_000 + i*200_000)
			points = append(points, dto.PricePointDTO{
				Time:   fmt.Sprintf("%d:30", 9+i),
				Open:   round2(basePrice + change - 0.1),
				High:   round2(basePrice + change + 0.2),
				Low:    round2(basePrice + change - 0.3),
				Close:  round2(basePrice + change),
				Volume: &volume,
			})
		}
	} else {
		n, ok := intervalPoints[interval]
		if !ok {
			return nil, ErrIntervalInvalid
		}
		points = make([]dto.PricePointDTO, 0, n)
		for i := 0; i < n; i++ {
			change := (float64(i) - float64(n)/2) * 0.5
			if interval == "1Y" || interval == "5Y" {
				change *= 2
			}
			volume := int64(10_000_000 + i*1_000_000)
			points = append(points, dto.PricePointDTO{
				Time:   fmt.Sprintf("2023-%02d-%02d", i%12+1, i%28+1),
				Open:   round2(basePrice + change - 0.5),
				High:   round2(basePrice + change + 1.0),
				Low:    round2(basePrice + change - 1.2),
				Close:  round2(basePrice + change),
				Volume: &volume,
			})
		}
	}

	return &dto.StockPriceDTO{
		Symbol:   strings.ToUpper(symbol),
		Interval: interval,
		Data:     points,
	}, nil
}

// GetSentiment 情感概览，reddit 部分尽量用实时帖子覆盖
func (s *stockServiceImpl) GetSentiment(ctx context.Context, symbol string) (*dto.SentimentDTO, error) {
	symbol = strings.ToUpper(symbol)

	var (
		snapshot *model.SentimentSnapshot
		live     []feed.Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshot, err = s.marketRepo.GetSentiment(gctx, symbol)
		return err
	})
	g.Go(func() error {
		records, err := s.redditSvc.GetPosts(gctx, symbol)
		if err != nil {
			log.WarnContext(gctx, "live reddit posts unavailable", "err", err)
			return nil
		}
		live = records
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	out := &dto.SentimentDTO{
		Symbol:          symbol,
		SocialSentiment: make(map[string]dto.SentimentScoreDTO, len(snapshot.Sources)),
		LastUpdated:     now,
	}
	if err := copier.Copy(&out.OverallSentiment, &snapshot.Overall); err != nil {
		return nil, err
	}
	for source, score := range snapshot.Sources {
		out.SocialSentiment[source] = dto.SentimentScoreDTO{Score: score.Score, Magnitude: score.Magnitude, Label: score.Label}
	}
	out.TrendingTopics = append([]string{}, snapshot.TrendingTopics...)

	if len(live) == 0 {
		out.RecentPosts = snapshotPosts(snapshot.RecentPosts, now)
		return out, nil
	}

	if label := dominantLabel(live); label != "" {
		src := out.SocialSentiment[reddit.SourceName]
		src.Label = label
		out.SocialSentiment[reddit.SourceName] = src
	}
	posts := livePosts(live)
	for _, p := range snapshotPosts(snapshot.RecentPosts, now) {
		if p.Platform != reddit.SourceName {
			posts = append(posts, p)
		}
	}
	out.RecentPosts = posts
	return out, nil
}

func snapshotPosts(posts []model.SocialPost, now time.Time) []dto.SocialPostDTO {
	out := make([]dto.SocialPostDTO, 0, len(posts))
	for _, p := range posts {
		created := now
		if age, err := reddit.ParseAge(p.Age); err == nil {
			created = now.Add(-age)
		}
		post := dto.SocialPostDTO{
			ID:        p.ID,
			Platform:  p.Platform,
			Content:   p.Content,
			CreatedAt: created,
			Likes:     p.Likes,
		}
		if p.Sentiment != nil {
			post.Sentiment = &dto.SentimentScoreDTO{Score: p.Sentiment.Score, Magnitude: p.Sentiment.Magnitude, Label: p.Sentiment.Label}
		}
		if p.URL != "" {
			post.URL = &p.URL
		}
		if p.Author != "" {
			post.Author = &p.Author
		}
		out = append(out, post)
	}
	return out
}

func livePosts(records []feed.Record) []dto.SocialPostDTO {
	n := min(len(records), maxLivePosts)
	out := make([]dto.SocialPostDTO, 0, n)
	for _, rec := range records[:n] {
		created, err := feed.ParseTimestamp(rec.Timestamp)
		if err != nil {
			continue
		}
		post := dto.SocialPostDTO{
			ID:        rec.ID,
			Platform:  rec.Source,
			Content:   rec.Content,
			CreatedAt: created,
			Author:    &rec.Author,
			Likes:     &rec.Likes,
		}
		if label := feed.SentimentLabel(rec.Sentiment); label != "" {
			post.Sentiment = &dto.SentimentScoreDTO{Label: label}
		}
		out = append(out, post)
	}
	return out
}

// dominantLabel 出现次数最多的情感标签，没有标签时返回空串
func dominantLabel(records []feed.Record) string {
	counts := make(map[string]int)
	best, bestN := "", 0
	for _, rec := range records {
		label := feed.SentimentLabel(rec.Sentiment)
		if label == "" {
			continue
		}
		counts[label]++
		if counts[label] > bestN {
			best, bestN = label, counts[label]
		}
	}
	return best
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
