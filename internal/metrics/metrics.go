package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Conflict stages.
const (
	StagePrecheck = "precheck"
	StageCommit   = "commit"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arena_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_bookings_total",
			Help: "Total number of bookings created",
		},
		[]string{"facility_type", "status"},
	)

	BookingConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_booking_conflicts_total",
			Help: "Booking attempts rejected because the interval was taken",
		},
		[]string{"stage"},
	)

	BookingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_booking_transitions_total",
			Help: "Booking status transitions performed by admins",
		},
		[]string{"to"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arena_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	CancellationRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arena_booking_cancellation_rejections_total",
			Help: "Cancellation requests refused by the cancellation policy",
		},
	)

	AvailabilityChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_availability_checks_total",
			Help: "Availability lookups by outcome",
		},
		[]string{"result"},
	)

	CatalogueCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_catalogue_cache_total",
			Help: "Facility catalogue cache lookups",
		},
		[]string{"result"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "arena_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_events_published_total",
			Help: "Domain events handed to the broker",
		},
		[]string{"routing_key", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(facilityType, status string) {
	BookingsTotal.WithLabelValues(facilityType, status).Inc()
}

func RecordBookingConflict(stage string) {
	BookingConflictsTotal.WithLabelValues(stage).Inc()
}

func RecordBookingTransition(to string) {
	BookingTransitionsTotal.WithLabelValues(to).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordCancellationRejected() {
	CancellationRejectionsTotal.Inc()
}

func RecordAvailabilityCheck(result string) {
	AvailabilityChecksTotal.WithLabelValues(result).Inc()
}

func RecordCatalogueCache(hit bool) {
	if hit {
		CatalogueCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	CatalogueCacheTotal.WithLabelValues("miss").Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordEvent(routingKey, status string) {
	EventsPublishedTotal.WithLabelValues(routingKey, status).Inc()
}
