package consts

const (
	ServiceName    = "sentiment-tech"
	ServiceTitle   = "SentimentTech API"
	ServiceVersion = "1.0.0"
)

const (
	DefaultInterval = "1D"
	PostsCacheName  = "reddit_posts"
)
