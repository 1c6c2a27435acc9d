package model

type TrendingStock struct {
	Symbol         string
	Name           string
	SentimentScore float64
	SentimentLabel string
	MentionCount   int
	PriceChange24h float64
}

type TrendingTopic struct {
	Topic          string
	SentimentScore float64
	MentionCount   int
	RelatedStocks  []string
}
