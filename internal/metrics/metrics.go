package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "slots_service",
			Name:      "booking_created_total",
			Help:      "Count of bookings created by service offering.",
		},
		[]string{"service"},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "slots_service",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled.",
		},
	)

	bookingConflict = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "slots_service",
			Name:      "booking_conflict_total",
			Help:      "Count of bookings rejected because the slot was taken or unavailable.",
		},
	)

	weekResolved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "slots_service",
			Name:      "week_resolved_total",
			Help:      "Count of week-view resolutions.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingCancelled, bookingConflict, weekResolved)
	})
}

func IncBookingCreated(service string) {
	bookingCreated.WithLabelValues(service).Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncBookingConflict() {
	bookingConflict.Inc()
}

func IncWeekResolved() {
	weekResolved.Inc()
}
