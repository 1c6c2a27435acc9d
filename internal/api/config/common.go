package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("SENTIMENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

// Default 返回仅包含默认值的配置，测试与本地运行使用
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.trusted_proxies", []string{"localhost"})

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("logstash.index", "logstash-sentimenttech")

	v.SetDefault("upstream.base_url", "http://localhost:8080")
	v.SetDefault("upstream.timeout_ms", 10000)
	v.SetDefault("upstream.retries", 2)
	v.SetDefault("upstream.retry_delay_ms", 200)

	v.SetDefault("feed.dedupe_interval_ms", 2000)
	v.SetDefault("feed.stale_ttl_ms", 5*60*1000)
	v.SetDefault("feed.max_entries", 512)
	v.SetDefault("feed.render_wait_ms", 3000)
	v.SetDefault("feed.timestamp_policy", "keep")
	v.SetDefault("feed.revalidate_cron", "@every 1m")
	v.SetDefault("feed.warm_symbols", []string{"AAPL", "MSFT"})

	v.SetDefault("reddit.user_agent", "sentimenttech/1.0")
	v.SetDefault("reddit.subreddits", []string{"stocks", "wallstreetbets", "investing"})
	v.SetDefault("reddit.limit", 25)
	v.SetDefault("reddit.cache_ttl_s", 120)
}
