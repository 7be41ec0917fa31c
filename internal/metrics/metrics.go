package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Service owns the prometheus collectors for the swap flow. Collectors
// register on the default registry, which the management /metrics
// endpoint exposes.
type Service struct {
	swapsTotal   *prometheus.CounterVec
	swapDuration *prometheus.HistogramVec
	quotesTotal  *prometheus.CounterVec
}

var (
	defaultOnce    sync.Once
	defaultService *Service
)

// New returns the service registered on the default registry. The
// default registry rejects duplicate collectors, so this is a
// singleton.
func New() *Service {
	defaultOnce.Do(func() {
		defaultService = NewWithRegisterer(prometheus.DefaultRegisterer)
	})
	return defaultService
}

// NewWithRegisterer registers the collectors on the given registerer.
// Tests pass a fresh registry so parallel server instances do not
// collide on registration.
func NewWithRegisterer(reg prometheus.Registerer) *Service {
	factory := promauto.With(reg)

	return &Service{
		swapsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "swapd_swaps_total",
			Help: "Guarded swap attempts by pool and result.",
		}, []string{"pool", "result"}),
		swapDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "swapd_swap_duration_seconds",
			Help:    "End-to-end duration of guarded swap attempts.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"pool"}),
		quotesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "swapd_quotes_total",
			Help: "Advisory quote reads by pool and result.",
		}, []string{"pool", "result"}),
	}
}

// RecordSwap counts one finished swap attempt. result is "confirmed"
// or the failure code.
func (s *Service) RecordSwap(pool, result string, duration time.Duration) {
	s.swapsTotal.WithLabelValues(pool, result).Inc()
	s.swapDuration.WithLabelValues(pool).Observe(duration.Seconds())
}

// RecordQuote counts one advisory quote read.
func (s *Service) RecordQuote(pool string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	s.quotesTotal.WithLabelValues(pool, result).Inc()
}
