package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorderIsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("render", time.Second)
	r.ObserveExportDuration(time.Second)
	r.IncStageResult("render", ResultSuccess)
	r.IncExportOutcome("success")
	r.ObserveArchiveSize(1024)
	r.ObserveAssetsExtracted(3)
	r.IncPublishResult(true)
}

func TestPrometheusRecorderCounts(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncStageResult("extract", ResultSuccess)
	pr.IncStageResult("extract", ResultSuccess)
	pr.IncStageResult("assemble", ResultFatal)
	pr.IncExportOutcome("success")
	pr.IncPublishResult(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.stageResults.WithLabelValues("extract", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.stageResults.WithLabelValues("assemble", "fatal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.exportOutcome.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.publishResults.WithLabelValues("failure")))
}

func TestPrometheusRecorderHandler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	require.NotNil(t, pr.Handler())
}
