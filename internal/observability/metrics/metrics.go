package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for the availability
// and booking flows.
type SchedulingMetrics struct {
	availabilityTotal *prometheus.CounterVec
	overlapTotal      *prometheus.CounterVec
	bookingsTotal     *prometheus.CounterVec
	storeLatency      *prometheus.HistogramVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkbook",
			Subsystem: "scheduling",
			Name:      "availability_requests_total",
			Help:      "Total availability queries",
		}, []string{"kind", "status"}),
		overlapTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkbook",
			Subsystem: "scheduling",
			Name:      "overlap_checks_total",
			Help:      "Total overlap checks by result",
		}, []string{"result"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkbook",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Total manual booking attempts by terminal state",
		}, []string{"status"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "inkbook",
			Subsystem: "scheduling",
			Name:      "store_query_seconds",
			Help:      "Latency of calendar store queries",
			Buckets:   prometheus.DefBuckets,
		}, []string{"query"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.availabilityTotal, m.overlapTotal, m.bookingsTotal, m.storeLatency)
	return m
}

// ObserveAvailability counts one availability query. kind is "dates" or
// "times"; status is "ok", "empty", or "error".
func (m *SchedulingMetrics) ObserveAvailability(kind, status string) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(kind, status).Inc()
}

// ObserveOverlapCheck counts one overlap check. result is "clear",
// "conflict", or "error".
func (m *SchedulingMetrics) ObserveOverlapCheck(result string) {
	if m == nil {
		return
	}
	m.overlapTotal.WithLabelValues(result).Inc()
}

// ObserveBooking counts one booking attempt by terminal state.
func (m *SchedulingMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

// ObserveStoreLatency records one store query's duration.
func (m *SchedulingMetrics) ObserveStoreLatency(query string, seconds float64) {
	if m == nil {
		return
	}
	m.storeLatency.WithLabelValues(query).Observe(seconds)
}
