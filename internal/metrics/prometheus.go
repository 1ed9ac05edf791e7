package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exports poller and upstream client activity as Prometheus metrics.
type Recorder struct {
	cycles          *prometheus.CounterVec
	cycleDuration   prometheus.Histogram
	vaultFailures   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
}

// New creates a Recorder whose collectors are registered with reg.
// A nil reg registers with the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Recorder{
		cycles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaultstat_refresh_cycles_total",
				Help: "Refresh cycles by outcome",
			},
			[]string{"result"},
		),
		cycleDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vaultstat_refresh_cycle_duration_seconds",
				Help:    "Duration of refresh cycles in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		vaultFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaultstat_vault_fetch_failures_total",
				Help: "Failed per-vault upstream fetches",
			},
			[]string{"vault", "stage"},
		),
		upstreamLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vaultstat_upstream_request_duration_seconds",
				Help:    "Duration of Hyperliquid info requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"type", "status"},
		),
	}
}

// ObserveCycle records a finished refresh cycle.
func (r *Recorder) ObserveCycle(result string, d time.Duration) {
	r.cycles.WithLabelValues(result).Inc()
	r.cycleDuration.Observe(d.Seconds())
}

// VaultFailed records a failed fetch for one vault stage.
func (r *Recorder) VaultFailed(vaultID, stage string) {
	r.vaultFailures.WithLabelValues(vaultID, stage).Inc()
}

// ObserveUpstream records one info request. Status 0 means no response was received.
func (r *Recorder) ObserveUpstream(requestType string, status int, d time.Duration) {
	r.upstreamLatency.WithLabelValues(requestType, strconv.Itoa(status)).Observe(d.Seconds())
}
