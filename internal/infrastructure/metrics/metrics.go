// Package metrics Prometheus 指标定义与 /metrics 暴露
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 加入结果标签
const (
	JoinJoined           = "joined"
	JoinConflict         = "conflict"
	JoinCapacityExceeded = "capacity_exceeded"
	JoinNotFound         = "not_found"
	JoinError            = "error"
)

var (
	ActivitiesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "huddle_activities_created_total",
		Help: "Activities created.",
	})

	ActivitiesCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "huddle_activities_cancelled_total",
		Help: "Activities cancelled by their organizer.",
	})

	JoinAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "huddle_join_attempts_total",
		Help: "Join attempts by outcome.",
	}, []string{"result"})

	Leaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "huddle_leaves_total",
		Help: "Participants that left an activity.",
	})

	MessagesPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "huddle_messages_posted_total",
		Help: "Chat messages appended.",
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "huddle_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"method", "path", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "huddle_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// GinMetrics 以路由模板（而非实际路径）作为标签，避免基数爆炸
func GinMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler /metrics
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
