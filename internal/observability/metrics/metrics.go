package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ticketsExpired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_expired_total",
			Help: "Tickets reclassified as expired per sweep rule",
		},
		[]string{"rule"},
	)

	paymentCallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_callbacks_total",
			Help: "Payment gateway return callbacks by kind",
		},
		[]string{"kind"},
	)

	payoutsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payouts_processed_total",
			Help: "Payout settlement outcomes per batch run",
		},
		[]string{"result"},
	)

	checkins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_checkins_total",
			Help: "Successful ticket check-ins",
		},
	)
)

func IncTicketsExpired(rule string, n int64) {
	ticketsExpired.WithLabelValues(rule).Add(float64(n))
}

func IncPaymentCallback(kind string) {
	paymentCallbacks.WithLabelValues(kind).Inc()
}

func IncPayoutProcessed(result string) {
	payoutsProcessed.WithLabelValues(result).Inc()
}

func IncCheckin() {
	checkins.Inc()
}

// GinMiddleware records request counts and latency per matched route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
