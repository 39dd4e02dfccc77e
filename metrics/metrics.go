// Package metrics provides Prometheus metrics for the scheduler daemon.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records scheduler and learner activity.
type Collector struct {
	registry *prometheus.Registry

	ticks        prometheus.Counter
	tickDuration prometheus.Histogram
	checkErrors  *prometheus.CounterVec

	autoStarts     prometheus.Counter
	autoStartSkips *prometheus.CounterVec
	warnings       *prometheus.CounterVec

	adjustments prometheus.Counter
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	c := &Collector{
		registry: registry,
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ccmax_scheduler_ticks_total",
			Help: "Number of scheduler ticks executed.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ccmax_scheduler_tick_duration_seconds",
			Help:    "Wall time of a full scheduler tick.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		checkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ccmax_scheduler_check_errors_total",
			Help: "Errors recovered inside a tick sub-check.",
		}, []string{"check"}),
		autoStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ccmax_auto_starts_total",
			Help: "Sessions started automatically.",
		}),
		autoStartSkips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ccmax_auto_start_skips_total",
			Help: "Auto-start opportunities skipped, by reason.",
		}, []string{"reason"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ccmax_window_ending_warnings_total",
			Help: "Window-expiry warnings emitted, by threshold.",
		}, []string{"threshold"}),
		adjustments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ccmax_adaptive_adjustments_total",
			Help: "Adaptive adjustments that changed the schedule.",
		}),
	}

	registry.MustRegister(
		c.ticks,
		c.tickDuration,
		c.checkErrors,
		c.autoStarts,
		c.autoStartSkips,
		c.warnings,
		c.adjustments,
	)
	return c
}

func (c *Collector) ObserveTick(d time.Duration) {
	c.ticks.Inc()
	c.tickDuration.Observe(d.Seconds())
}

func (c *Collector) CheckError(check string) {
	c.checkErrors.WithLabelValues(check).Inc()
}

func (c *Collector) AutoStart() {
	c.autoStarts.Inc()
}

func (c *Collector) AutoStartSkipped(reason string) {
	c.autoStartSkips.WithLabelValues(reason).Inc()
}

func (c *Collector) Warning(thresholdMinutes int) {
	c.warnings.WithLabelValues(strconv.Itoa(thresholdMinutes)).Inc()
}

func (c *Collector) Adjustment() {
	c.adjustments.Inc()
}

// Handler exposes the registry in Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
