package consts

const (
	RedditPostsKey    = "reddit:posts:"
	TrendingStocksKey = "trending:stocks"
	TrendingTopicsKey = "trending:topics"
)

const (
	FeedRevalidateLock = "lock:feed:revalidate"
)
