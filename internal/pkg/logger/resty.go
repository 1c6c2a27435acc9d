package logger

import (
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const httpSlowThreshold = 500 * time.Millisecond

// AttachResty 为 resty 客户端挂载出站请求日志
func AttachResty(client *resty.Client, name string) *resty.Client {
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		req := resp.Request
		fields := []any{
			log.String("client", name),
			log.String("method", req.Method),
			log.String("url", req.URL),
			log.Int("status", resp.StatusCode()),
			log.Int64("size", resp.Size()),
			log.Duration("latency", resp.Time()),
		}
		switch {
		case resp.IsError():
			log.WarnContext(req.Context(), "HTTP_CLIENT_BAD_STATUS", fields...)
		case resp.Time() > httpSlowThreshold:
			log.WarnContext(req.Context(), "HTTP_CLIENT_SLOW", fields...)
		default:
			log.InfoContext(req.Context(), "HTTP_CLIENT", fields...)
		}
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		log.ErrorContext(req.Context(), "HTTP_CLIENT_ERROR",
			log.String("client", name),
			log.String("method", req.Method),
			log.String("url", req.URL),
			log.Any("err", err),
		)
	})
	return client
}
