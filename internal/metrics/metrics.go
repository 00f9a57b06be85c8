// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics counts model round trips and report outcomes. Counters
// live in a private registry and are exported to a node_exporter textfile
// at the end of a run. A nil *Recorder records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stage labels for round trips.
const (
	StageOutline   = "outline"
	StageRefine    = "refine"
	StageKnowledge = "knowledge"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Recorder holds the report-engine collectors.
type Recorder struct {
	reg *prometheus.Registry

	roundTrips       *prometheus.CounterVec
	roundTripLatency *prometheus.HistogramVec
	fragmentsSkipped prometheus.Counter
	reports          *prometheus.CounterVec
	cacheHits        prometheus.Counter
}

// New registers the collectors in a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		roundTrips: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_engine_round_trips_total",
				Help: "Model round trips by pipeline stage and outcome",
			},
			[]string{"stage", "outcome"},
		),
		roundTripLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "report_engine_round_trip_seconds",
				Help:    "Model round trip latency in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
			},
			[]string{"stage"},
		),
		fragmentsSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "report_engine_fragments_skipped_total",
			Help: "Fragments whose refinement failed and was skipped",
		}),
		reports: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_engine_reports_total",
				Help: "Reports generated by outcome",
			},
			[]string{"outcome"},
		),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "report_engine_cache_hits_total",
			Help: "Round trips answered from the response cache",
		}),
	}
}

// ObserveRoundTrip records one round trip for stage.
func (r *Recorder) ObserveRoundTrip(stage string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.roundTrips.WithLabelValues(stage, outcome(err)).Inc()
	r.roundTripLatency.WithLabelValues(stage).Observe(d.Seconds())
}

// FragmentSkipped counts a fragment dropped after a failed refinement.
func (r *Recorder) FragmentSkipped() {
	if r == nil {
		return
	}
	r.fragmentsSkipped.Inc()
}

// ReportFinished counts a finished report run.
func (r *Recorder) ReportFinished(err error) {
	if r == nil {
		return
	}
	r.reports.WithLabelValues(outcome(err)).Inc()
}

// CacheHit counts a round trip served from cache.
func (r *Recorder) CacheHit() {
	if r == nil {
		return
	}
	r.cacheHits.Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// WriteTextfile writes all collectors to path in the text exposition
// format. The write is atomic.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}

func outcome(err error) string {
	if err != nil {
		return outcomeError
	}
	return outcomeSuccess
}
