// Package metrics defines observability hooks for the export pipeline.
package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for export and stage metrics.
// Implementations may forward to Prometheus or elsewhere; the
// NoopRecorder allows optional injection.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveExportDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncExportOutcome(outcome string) // outcome: success|failed|canceled
	ObserveArchiveSize(bytes int64)
	ObserveAssetsExtracted(n int)
	IncPublishResult(success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics
// are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveExportDuration(time.Duration)        {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncExportOutcome(string)                    {}
func (NoopRecorder) ObserveArchiveSize(int64)                   {}
func (NoopRecorder) ObserveAssetsExtracted(int)                 {}
func (NoopRecorder) IncPublishResult(bool)                      {}
