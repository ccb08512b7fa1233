package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the customer API.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	PhotoUploads    *prometheus.CounterVec
}

// New registers all customer API metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "customer_api_requests_total",
			Help: "Total HTTP requests by method and status",
		}, []string{"method", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "customer_api_request_duration_seconds",
			Help:    "Duration of HTTP requests by method",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method"}),
		PhotoUploads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "customer_api_photo_uploads_total",
			Help: "Photo upload attempts by outcome",
		}, []string{"outcome"}),
	}
}

// Instrument records request counts and latency around each handler.
func (m *Metrics) Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.RequestsTotal.WithLabelValues(c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// RecordPhotoUpload tracks upload outcomes ("ok" or "failed").
func (m *Metrics) RecordPhotoUpload(outcome string) {
	m.PhotoUploads.WithLabelValues(outcome).Inc()
}
