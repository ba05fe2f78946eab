package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for booking flows.
type BookingMetrics struct {
	bookingsTotal      *prometheus.CounterVec
	cancellationsTotal *prometheus.CounterVec
	sweptTotal         prometheus.Counter
	snapshotFailures   *prometheus.CounterVec
	activeBookings     prometheus.Gauge
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "confirm_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		cancellationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "cancel_total",
			Help:      "Cancellation attempts by outcome",
		}, []string{"outcome"}),
		sweptTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "expired_swept_total",
			Help:      "Appointments removed by the expiry sweep",
		}),
		snapshotFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "snapshot_failures_total",
			Help:      "Snapshot read/write failures",
		}, []string{"op"}),
		activeBookings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "active_appointments",
			Help:      "Appointments currently in the booking map",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.cancellationsTotal, m.sweptTotal, m.snapshotFailures, m.activeBookings)
	return m
}

func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveCancellation(outcome string) {
	if m == nil {
		return
	}
	m.cancellationsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveSwept(removed int) {
	if m == nil || removed <= 0 {
		return
	}
	m.sweptTotal.Add(float64(removed))
}

func (m *BookingMetrics) ObserveSnapshotFailure(op string) {
	if m == nil {
		return
	}
	m.snapshotFailures.WithLabelValues(op).Inc()
}

func (m *BookingMetrics) SetActive(n int) {
	if m == nil {
		return
	}
	m.activeBookings.Set(float64(n))
}
