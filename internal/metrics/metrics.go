// Package metrics exposes Prometheus collectors for the brewery pipeline.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelinePagesFetchedTotal   prometheus.Counter
	pipelineRecordsTotal        *prometheus.CounterVec
	pipelineStageRunsTotal      *prometheus.CounterVec
	pipelineStageDurationSecond *prometheus.HistogramVec
	pipelineQualityChecksTotal  *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		pipelinePagesFetchedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "brewery_pages_fetched_total",
				Help: "Total number of API pages fetched.",
			},
		)

		pipelineRecordsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brewery_records_total",
				Help: "Total number of records processed, labeled by disposition.",
			},
			[]string{"disposition"},
		)

		pipelineStageRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brewery_stage_runs_total",
				Help: "Total number of stage executions, labeled by stage and status.",
			},
			[]string{"stage", "status"},
		)

		pipelineStageDurationSecond = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brewery_stage_duration_seconds",
				Help:    "Histogram of stage execution latencies, labeled by stage.",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
			},
			[]string{"stage"},
		)

		pipelineQualityChecksTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brewery_quality_checks_total",
				Help: "Total number of quality gate evaluations, labeled by result.",
			},
			[]string{"result"},
		)
	})
}

// PageFetched increments the fetched-pages counter.
func PageFetched() {
	if pipelinePagesFetchedTotal == nil {
		return
	}
	pipelinePagesFetchedTotal.Inc()
}

// RecordsObserved adds n to the records counter for the given disposition
// (e.g. "ingested", "cleaned", "dropped").
func RecordsObserved(disposition string, n int) {
	if pipelineRecordsTotal == nil || n <= 0 {
		return
	}
	pipelineRecordsTotal.WithLabelValues(disposition).Add(float64(n))
}

// StageCompleted records one stage execution with its status and duration.
func StageCompleted(stage, status string, dur time.Duration) {
	if pipelineStageRunsTotal == nil {
		return
	}
	pipelineStageRunsTotal.WithLabelValues(stage, status).Inc()
	pipelineStageDurationSecond.WithLabelValues(stage).Observe(dur.Seconds())
}

// QualityCheck records one quality gate evaluation result ("pass" or "fail").
func QualityCheck(result string) {
	if pipelineQualityChecksTotal == nil {
		return
	}
	pipelineQualityChecksTotal.WithLabelValues(result).Inc()
}
