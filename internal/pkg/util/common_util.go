package util

import (
	"strconv"
	"strings"
	"time"
)

// NormalizeSymbol 去掉空白并转为大写
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ParseWait 解析毫秒数，空串返回 def，非法值或负数视为 0
func ParseWait(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
