package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "profile_builder",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "profile_builder",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	pictureUploadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "profile_builder",
			Subsystem: "picture",
			Name:      "upload_bytes",
			Help:      "Size of accepted profile picture uploads.",
			Buckets:   prometheus.ExponentialBuckets(16<<10, 2, 9),
		},
	)

	profileEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "profile_builder",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Profile events handed to the publisher, by type and outcome.",
		},
		[]string{"event_type", "outcome"},
	)
)

func register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(requestDuration, requestTotal, pictureUploadBytes, profileEvents)
	})
}

// GinMiddleware records latency and count for every request.
func GinMiddleware() gin.HandlerFunc {
	register()

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		}

		requestDuration.With(labels).Observe(time.Since(start).Seconds())
		requestTotal.With(labels).Inc()
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	register()
	return gin.WrapH(promhttp.Handler())
}

func ObservePictureUpload(size int64) {
	register()
	pictureUploadBytes.Observe(float64(size))
}

func CountEvent(eventType string, err error) {
	register()
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	profileEvents.WithLabelValues(eventType, outcome).Inc()
}
