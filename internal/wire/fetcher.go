package wire

import (
	"SentimentTech/internal/pkg/feed"
	"SentimentTech/internal/pkg/monitoring"
	"SentimentTech/internal/service"
	"context"
)

// observedFetcher 统计上游请求结果
type observedFetcher struct {
	next    service.PostFetcher
	metrics *monitoring.Collector
}

func (o *observedFetcher) FetchPosts(ctx context.Context, target string) ([]feed.Record, error) {
	records, err := o.next.FetchPosts(ctx, target)
	o.metrics.ObserveFetch("upstream", err)
	return records, err
}
