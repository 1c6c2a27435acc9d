package config

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logstash LogstashConfig `mapstructure:"logstash"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Reddit   RedditConfig   `mapstructure:"reddit"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LogstashConfig 远程日志
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// UpstreamConfig feed 拉取的上游 API
type UpstreamConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	TimeoutMs    int    `mapstructure:"timeout_ms"`
	Retries      int    `mapstructure:"retries"`
	RetryDelayMs int    `mapstructure:"retry_delay_ms"`
}

// FeedConfig 帖子流缓存与渲染
type FeedConfig struct {
	DedupeIntervalMs int      `mapstructure:"dedupe_interval_ms"`
	StaleTTLMs       int      `mapstructure:"stale_ttl_ms"`
	MaxEntries       int      `mapstructure:"max_entries"`
	RenderWaitMs     int      `mapstructure:"render_wait_ms"`
	TimestampPolicy  string   `mapstructure:"timestamp_policy"`
	RevalidateCron   string   `mapstructure:"revalidate_cron"`
	WarmSymbols      []string `mapstructure:"warm_symbols"`
}

// RedditConfig Reddit 数据源
type RedditConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	UserAgent    string   `mapstructure:"user_agent"`
	Subreddits   []string `mapstructure:"subreddits"`
	Limit        int      `mapstructure:"limit"`
	CacheTTLSec  int      `mapstructure:"cache_ttl_s"`
}
