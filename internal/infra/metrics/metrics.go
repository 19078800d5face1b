// Package metrics exposes Prometheus collectors for the server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "beatify"

// Metrics holds the server's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	generations        *prometheus.CounterVec
	generationDuration prometheus.Histogram
	audioResolutions   *prometheus.CounterVec
	playlists          prometheus.Gauge
	requests           *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Track generation attempts by outcome.",
		}, []string{"outcome"}),
		generationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time spent generating a track.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		audioResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_resolutions_total",
			Help:      "Audio resolutions by engine and fallback reason.",
		}, []string{"engine", "reason"}),
		playlists: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "playlists",
			Help:      "Number of stored playlists.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC requests by procedure and result code.",
		}, []string{"procedure", "code"}),
	}

	m.registry.MustRegister(
		m.generations,
		m.generationDuration,
		m.audioResolutions,
		m.playlists,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveGeneration records a finished generation.
func (m *Metrics) ObserveGeneration(outcome string, elapsed time.Duration) {
	m.generations.WithLabelValues(outcome).Inc()
	m.generationDuration.Observe(elapsed.Seconds())
}

// ObserveAudioResolution records how a track's audio was obtained.
func (m *Metrics) ObserveAudioResolution(engine, reason string) {
	if reason == "" {
		reason = "none"
	}
	m.audioResolutions.WithLabelValues(engine, reason).Inc()
}

// SetPlaylistCount sets the playlist gauge.
func (m *Metrics) SetPlaylistCount(n int) {
	m.playlists.Set(float64(n))
}

// ObserveRequest records a handled RPC.
func (m *Metrics) ObserveRequest(procedure, code string) {
	m.requests.WithLabelValues(procedure, code).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
