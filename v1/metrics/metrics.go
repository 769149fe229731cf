package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// OwnerCounter tracks the number of owners created.
	OwnerCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warden_owners_created_total",
		Help: "Total number of owners created",
	})
	// ReleaseCounter tracks the number of owners released.
	ReleaseCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warden_owners_released_total",
		Help: "Total number of owners released",
	})
	// ViolationCounter tracks the number of aborted borrow attempts.
	ViolationCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warden_violations_total",
		Help: "Total number of borrow or ownership violations",
	})
	// LiveOwnersGauge reports the number of owners currently active.
	LiveOwnersGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "warden_live_owners",
		Help: "Current number of active owners",
	})
)

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// RegisterCoreMetrics registers warden core metrics on the provided registry.
func RegisterCoreMetrics(reg prometheus.Registerer) {
	reg.MustRegister(OwnerCounter, ReleaseCounter, ViolationCounter, LiveOwnersGauge)
}
