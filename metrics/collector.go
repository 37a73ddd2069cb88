// Package metrics provides Prometheus metrics for the parser and the
// HTTP API.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/leojohnthomas/lef-parser/lefparser"
)

// Config contains metrics configuration.
type Config struct {
	// Enabled turns metric recording on. When false, record methods
	// are no-ops.
	Enabled bool

	// Namespace is the metric name prefix. Default: "lefparse".
	Namespace string

	// ParseDurationBuckets are the histogram buckets for parse
	// durations in seconds.
	ParseDurationBuckets []float64
}

// Collector owns the Prometheus metrics of the process: parse counts,
// parse durations, error counts by kind, and API request counts.
type Collector struct {
	config   *Config
	registry *prometheus.Registry

	// Parser metrics
	parsesTotal   *prometheus.CounterVec
	parseErrors   *prometheus.CounterVec
	parseDuration *prometheus.HistogramVec
	macrosLoaded  prometheus.Gauge

	// API metrics
	librariesLoaded prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
}

// NewCollector creates a metrics collector registered on the given
// registry. If registry is nil a new one is created; Registry exposes
// it for serving.
func NewCollector(cfg *Config, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = &Config{Enabled: true}
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "lefparse"
	}
	if len(cfg.ParseDurationBuckets) == 0 {
		// Library files parse in milliseconds to low seconds.
		cfg.ParseDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		parsesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "parser",
				Name:      "parses_total",
				Help:      "Total number of parse runs by status",
			},
			[]string{"status"},
		),

		parseErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "parser",
				Name:      "parse_errors_total",
				Help:      "Total number of structural parse errors by kind",
			},
			[]string{"kind"},
		),

		parseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "parser",
				Name:      "parse_duration_seconds",
				Help:      "Duration of parse runs in seconds",
				Buckets:   cfg.ParseDurationBuckets,
			},
			[]string{"status"},
		),

		macrosLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "parser",
				Name:      "macros_loaded",
				Help:      "Number of macro records currently loaded",
			},
		),

		librariesLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "api",
				Name:      "libraries_loaded",
				Help:      "Number of libraries currently registered",
			},
		),

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total number of API requests by route and status",
			},
			[]string{"route", "status"},
		),
	}

	registry.MustRegister(
		c.parsesTotal,
		c.parseErrors,
		c.parseDuration,
		c.macrosLoaded,
		c.librariesLoaded,
		c.requestsTotal,
	)

	return c
}

// Registry returns the Prometheus registry holding the collector's
// metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordParse records one parse run.
func (c *Collector) RecordParse(status string, duration time.Duration, macroCount int) {
	if !c.config.Enabled {
		return
	}
	c.parsesTotal.WithLabelValues(status).Inc()
	c.parseDuration.WithLabelValues(status).Observe(duration.Seconds())
	if macroCount >= 0 {
		c.macrosLoaded.Set(float64(macroCount))
	}
}

// RecordParseError records one structural parse error by kind.
func (c *Collector) RecordParseError(err error) {
	if !c.config.Enabled {
		return
	}
	c.parseErrors.WithLabelValues(ErrorKind(err)).Inc()
}

// SetLibrariesLoaded sets the number of registered libraries.
func (c *Collector) SetLibrariesLoaded(n int) {
	if !c.config.Enabled {
		return
	}
	c.librariesLoaded.Set(float64(n))
}

// SetMacrosLoaded sets the number of loaded macro records.
func (c *Collector) SetMacrosLoaded(n int) {
	if !c.config.Enabled {
		return
	}
	c.macrosLoaded.Set(float64(n))
}

// RecordRequest records one API request.
func (c *Collector) RecordRequest(route, status string) {
	if !c.config.Enabled {
		return
	}
	c.requestsTotal.WithLabelValues(route, status).Inc()
}

// ErrorKind maps a parse error to its metric label:
// "end_mismatch", "missing_layer", "bad_number", "syntax" or "parse".
func ErrorKind(err error) string {
	var (
		endMismatch  *lefparser.EndMismatchError
		missingLayer *lefparser.MissingLayerError
		badNumber    *lefparser.NumberError
		syntax       *lefparser.SyntaxError
	)
	switch {
	case errors.As(err, &endMismatch):
		return "end_mismatch"
	case errors.As(err, &missingLayer):
		return "missing_layer"
	case errors.As(err, &badNumber):
		return "bad_number"
	case errors.As(err, &syntax):
		return "syntax"
	}
	return "parse"
}
