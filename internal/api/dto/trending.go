package dto

type TrendingStockDTO struct {
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	SentimentScore float64 `json:"sentiment_score"`
	SentimentLabel string  `json:"sentiment_label"`
	MentionCount   int     `json:"mention_count"`
	PriceChange24h float64 `json:"price_change_24h"`
}

type TrendingStocksDTO struct {
	TrendingStocks []TrendingStockDTO `json:"trending_stocks"`
	LastUpdated    string             `json:"last_updated"`
}

type TrendingTopicDTO struct {
	Topic          string   `json:"topic"`
	SentimentScore float64  `json:"sentiment_score"`
	MentionCount   int      `json:"mention_count"`
	RelatedStocks  []string `json:"related_stocks"`
}

type TrendingTopicsDTO struct {
	TrendingTopics []TrendingTopicDTO `json:"trending_topics"`
	LastUpdated    string             `json:"last_updated"`
}
