package monitoring

import (
	"SentimentTech/internal/pkg/swr"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector 服务的 Prometheus 指标
type Collector struct {
	namespace string
	registry  *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	inFlight            prometheus.Gauge
	cacheEvents         *prometheus.CounterVec
	upstreamFetches     *prometheus.CounterVec
}

func NewCollector(serviceName string) *Collector {
	ns := strings.ReplaceAll(serviceName, "-", "_")
	reg := prometheus.NewRegistry()

	c := &Collector{
		namespace: ns,
		registry:  reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: ns + "_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    ns + "_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: ns + "_http_requests_in_flight",
			Help: "Requests currently being served",
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: ns + "_cache_events_total",
			Help: "Stale-while-revalidate cache lookups by outcome",
		}, []string{"cache", "event"}),
		upstreamFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: ns + "_upstream_fetches_total",
			Help: "Upstream fetches by source and status",
		}, []string{"source", "status"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.inFlight,
		c.cacheEvents,
		c.upstreamFetches,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Middleware 采集 HTTP 请求指标
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		c.inFlight.Inc()
		defer c.inFlight.Dec()

		ctx.Next()

		endpoint := ctx.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}
		method := ctx.Request.Method
		c.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.httpRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler 暴露 /metrics
func (c *Collector) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
	return func(ctx *gin.Context) {
		h.ServeHTTP(ctx.Writer, ctx.Request)
	}
}

// CacheHooks 把 swr 缓存事件接到计数器上
func (c *Collector) CacheHooks(cache string) swr.MetricsHooks {
	inc := func(event string) func(string) {
		counter := c.cacheEvents.WithLabelValues(cache, event)
		return func(string) { counter.Inc() }
	}
	return swr.MetricsHooks{
		OnHit:   inc("hit"),
		OnMiss:  inc("miss"),
		OnStale: inc("stale"),
		OnError: inc("error"),
	}
}

// ObserveFetch 记录一次上游请求结果
func (c *Collector) ObserveFetch(source string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.upstreamFetches.WithLabelValues(source, status).Inc()
}
