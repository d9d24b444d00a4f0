package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()

	assert.NotNil(t, pipelinePagesFetchedTotal)
	assert.NotNil(t, pipelineRecordsTotal)
	assert.NotNil(t, pipelineStageRunsTotal)
	assert.NotNil(t, pipelineQualityChecksTotal)
}

func TestCounters(t *testing.T) {
	Init()

	before := testutil.ToFloat64(pipelinePagesFetchedTotal)
	PageFetched()
	assert.Equal(t, before+1, testutil.ToFloat64(pipelinePagesFetchedTotal))

	dropped := pipelineRecordsTotal.WithLabelValues("dropped")
	beforeDropped := testutil.ToFloat64(dropped)
	RecordsObserved("dropped", 3)
	RecordsObserved("dropped", 0) // no-op
	assert.Equal(t, beforeDropped+3, testutil.ToFloat64(dropped))

	runs := pipelineStageRunsTotal.WithLabelValues("ingest", "success")
	beforeRuns := testutil.ToFloat64(runs)
	StageCompleted("ingest", "success", 250*time.Millisecond)
	assert.Equal(t, beforeRuns+1, testutil.ToFloat64(runs))

	passes := pipelineQualityChecksTotal.WithLabelValues("pass")
	beforePasses := testutil.ToFloat64(passes)
	QualityCheck("pass")
	assert.Equal(t, beforePasses+1, testutil.ToFloat64(passes))
}
