package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookmaker_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookmaker_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookmaker_commands_total",
			Help: "Total number of chat commands handled",
		},
		[]string{"command", "status"},
	)

	WagersOpenedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmaker_wagers_opened_total",
			Help: "Total number of wagers opened",
		},
	)

	WagersClosedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmaker_wagers_closed_total",
			Help: "Total number of wagers closed for betting",
		},
	)

	WagersCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmaker_wagers_cancelled_total",
			Help: "Total number of wagers cancelled",
		},
	)

	WagersSettledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmaker_wagers_settled_total",
			Help: "Total number of wagers settled with a winner",
		},
	)

	BetsPlacedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmaker_bets_placed_total",
			Help: "Total number of bets placed",
		},
	)

	PointsStakedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmaker_points_staked_total",
			Help: "Total points staked across all bets",
		},
	)

	PointsPaidOutTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmaker_points_paid_out_total",
			Help: "Total points credited to winners at settlement",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookmaker_notifications_total",
			Help: "Total number of traQ notifications",
		},
		[]string{"status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookmaker_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordCommand(command, status string) {
	CommandsTotal.WithLabelValues(command, status).Inc()
}

func RecordBet(amount int) {
	BetsPlacedTotal.Inc()
	PointsStakedTotal.Add(float64(amount))
}

func RecordSettlement(paidOut int) {
	WagersSettledTotal.Inc()
	PointsPaidOutTotal.Add(float64(paidOut))
}

func RecordNotification(status string) {
	NotificationsTotal.WithLabelValues(status).Inc()
}
