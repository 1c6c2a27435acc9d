package model

// Stock 股票行情快照
type Stock struct {
	Symbol        string
	Name          string
	Price         float64
	Change        float64
	ChangePercent float64
	Volume        string
	MarketCap     string
	PERatio       float64
}

// SentimentScore 情感得分，Label 为 positive / negative / neutral
type SentimentScore struct {
	Score     float64
	Magnitude float64
	Label     string
}

// SocialPost 社交平台帖子
type SocialPost struct {
	ID        string
	Platform  string
	Content   string
	Age       string
	Sentiment *SentimentScore
	URL       string
	Author    string
	Likes     *int
}

// SentimentSnapshot 某只股票的情感概览
type SentimentSnapshot struct {
	Overall        SentimentScore
	Sources        map[string]SentimentScore
	TrendingTopics []string
	RecentPosts    []SocialPost
}
