package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Default is the process-wide metrics instance
	Default *Metrics
	once    sync.Once
	mu      sync.Mutex
)

// InitDefault registers the default metrics with the Prometheus default registerer.
func InitDefault() *Metrics {
	return InitDefaultWith(prometheus.DefaultRegisterer)
}

// InitDefaultWith registers the default metrics with reg. Only the first call has effect.
func InitDefaultWith(reg prometheus.Registerer) *Metrics {
	mu.Lock()
	defer mu.Unlock()
	once.Do(func() {
		Default = NewMetrics(reg)
	})
	return Default
}

// GetDefault returns the default metrics instance, initializing it if needed.
func GetDefault() *Metrics {
	mu.Lock()
	m := Default
	mu.Unlock()
	if m == nil {
		return InitDefault()
	}
	return m
}

// NewRegistry creates a new Prometheus registry with metrics
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	return reg, m
}

// Handler returns an HTTP handler for the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor returns an HTTP handler for a specific registry
func HandlerFor(reg prometheus.Gatherer, opts promhttp.HandlerOpts) http.Handler {
	return promhttp.HandlerFor(reg, opts)
}

// Reset clears the default metrics instance. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	Default = nil
	once = sync.Once{}
}
