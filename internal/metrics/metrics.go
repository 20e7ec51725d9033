// Package metrics bundles the Prometheus instrumentation for the tracking
// and analysis surfaces.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

// Collector holds the service's Prometheus metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	SamplesIngested  prometheus.Counter
	MarkersPlaced    prometheus.Counter
	EdgesSuppressed  prometheus.Counter
	AnalysisRuns     prometheus.Counter
	AnalysisDuration prometheus.Histogram
	DatasetsLoaded   prometheus.Gauge
}

// NewCollector registers the service metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{
		gatherer: gatherer,
		SamplesIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigfinder_live_samples_total",
			Help: "Total live samples processed by the trigger subsystem.",
		}),
		MarkersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigfinder_markers_placed_total",
			Help: "Total markers placed by rising-edge triggers.",
		}),
		EdgesSuppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigfinder_edges_suppressed_total",
			Help: "Rising edges consumed without a marker due to the minimum spacing rule.",
		}),
		AnalysisRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigfinder_analysis_runs_total",
			Help: "Total offline analysis runs.",
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sigfinder_analysis_duration_seconds",
			Help:    "Offline analysis latency in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}),
		DatasetsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sigfinder_datasets_loaded",
			Help: "Datasets currently loaded in the analysis session.",
		}),
	}

	collectors := []prometheus.Collector{
		c.SamplesIngested, c.MarkersPlaced, c.EdgesSuppressed,
		c.AnalysisRuns, c.AnalysisDuration, c.DatasetsLoaded,
	}
	for _, col := range collectors {
		if err := reg.Register(col); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, err
		}
	}

	return c, nil
}

// Handler returns the gin handler serving the /metrics endpoint.
func (c *Collector) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
	return func(ctx *gin.Context) {
		h.ServeHTTP(ctx.Writer, ctx.Request)
	}
}
