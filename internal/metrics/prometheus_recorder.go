package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	registry        *prom.Registry
	stageDuration   *prom.HistogramVec
	exportDuration  prom.Histogram
	stageResults    *prom.CounterVec
	exportOutcome   *prom.CounterVec
	archiveSize     prom.Histogram
	assetsExtracted prom.Histogram
	publishResults  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics
// (idempotent per recorder).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "bentoforge",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual export stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.exportDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "bentoforge",
			Name:      "export_duration_seconds",
			Help:      "Total export duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "bentoforge",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.exportOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "bentoforge",
			Name:      "export_outcomes_total",
			Help:      "Export outcomes by final status",
		}, []string{"outcome"})
		pr.archiveSize = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "bentoforge",
			Name:      "archive_size_bytes",
			Help:      "Size of produced archives",
			Buckets:   prom.ExponentialBuckets(1024, 4, 10),
		})
		pr.assetsExtracted = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "bentoforge",
			Name:      "assets_extracted",
			Help:      "Embedded media assets extracted per export",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		})
		pr.publishResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "bentoforge",
			Name:      "publish_results_total",
			Help:      "Publish results by success/failure",
		}, []string{"result"})
		reg.MustRegister(pr.stageDuration, pr.exportDuration, pr.stageResults,
			pr.exportOutcome, pr.archiveSize, pr.assetsExtracted, pr.publishResults)
	})
	return pr
}

func (pr *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	pr.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObserveExportDuration(d time.Duration) {
	pr.exportDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	pr.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (pr *PrometheusRecorder) IncExportOutcome(outcome string) {
	pr.exportOutcome.WithLabelValues(outcome).Inc()
}

func (pr *PrometheusRecorder) ObserveArchiveSize(bytes int64) {
	pr.archiveSize.Observe(float64(bytes))
}

func (pr *PrometheusRecorder) ObserveAssetsExtracted(n int) {
	pr.assetsExtracted.Observe(float64(n))
}

func (pr *PrometheusRecorder) IncPublishResult(success bool) {
	label := "failure"
	if success {
		label = "success"
	}
	pr.publishResults.WithLabelValues(label).Inc()
}

// Handler returns an HTTP handler exposing the recorder's registry.
func (pr *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(pr.registry, promhttp.HandlerOpts{})
}
