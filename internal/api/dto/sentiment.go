package dto

import "time"

type SentimentScoreDTO struct {
	Score     float64 `json:"score"`
	Magnitude float64 `json:"magnitude"`
	Label     string  `json:"label"`
}

// SocialPostDTO 来自实时数据的帖子可能没有情感得分
type SocialPostDTO struct {
	ID        string             `json:"id"`
	Platform  string             `json:"platform"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"created_at"`
	Sentiment *SentimentScoreDTO `json:"sentiment"`
	URL       *string            `json:"url,omitempty"`
	Author    *string            `json:"author,omitempty"`
	Likes     *int               `json:"likes,omitempty"`
}

type SentimentDTO struct {
	Symbol           string                       `json:"symbol"`
	OverallSentiment SentimentScoreDTO            `json:"overall_sentiment"`
	SocialSentiment  map[string]SentimentScoreDTO `json:"social_sentiment"`
	TrendingTopics   []string                     `json:"trending_topics"`
	RecentPosts      []SocialPostDTO              `json:"recent_posts"`
	LastUpdated      time.Time                    `json:"last_updated"`
}
