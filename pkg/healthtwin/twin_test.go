package healthtwin

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// P7: after enough samples from a stationary Gaussian source, the learned
// baseline's mean and std converge to within 0.1*sigma of the true
// parameters.
func TestBaseline_ConvergesOnStationarySource(t *testing.T) {
	const mu, sigma = 75.0, 8.0
	const n = 5000

	src := rand.New(rand.NewSource(7))
	twin := NewTwin()
	for i := 0; i < n; i++ {
		twin.AddSample("patient-1", Sample{MetricHeartRate: mu + src.NormFloat64()*sigma})
	}

	snap, ok := twin.Snapshot("patient-1", MetricHeartRate)
	require.True(t, ok)

	assert.Less(t, math.Abs(snap.Baseline.Mean-mu), 0.1*sigma)
	assert.Less(t, math.Abs(snap.Baseline.Std-sigma), 0.1*sigma)
	assert.Equal(t, n, snap.Baseline.SampleCount)
}

// P8 (health-twin half): no anomaly is reported while a metric has no
// baseline at all, and a value far outside an established baseline is flagged.
func TestCheckAnomaly_FlagsOutlierOnceBaselineEstablished(t *testing.T) {
	twin := NewTwin()

	isAnomaly, _, _ := twin.CheckAnomaly("p2", Sample{MetricHeartRate: 200})
	assert.False(t, isAnomaly, "no baseline at all yet, nothing to compare against")

	for i := 0; i < 50; i++ {
		twin.AddSample("p2", Sample{MetricHeartRate: 70 + float64(i%5)})
	}

	isAnomaly, risk, anomalies := twin.CheckAnomaly("p2", Sample{MetricHeartRate: 200})
	assert.True(t, isAnomaly)
	assert.Greater(t, risk, 0.0)
	require.Len(t, anomalies, 1)
	assert.Equal(t, MetricHeartRate, anomalies[0].Metric)
}

// spec.md §4.7's hard checks apply "without requiring mature baselines": a
// baseline with a single prior sample has std == 0, so the z-score branch
// never fires, but an extreme HR still trips the HR > baseline_max + 15
// hard check.
func TestCheckAnomaly_HardCheckFiresOnImmatureBaseline(t *testing.T) {
	twin := NewTwin()
	twin.AddSample("p3", Sample{MetricHeartRate: 70})

	isAnomaly, risk, anomalies := twin.CheckAnomaly("p3", Sample{MetricHeartRate: 200})

	assert.True(t, isAnomaly)
	assert.Greater(t, risk, 0.0)
	require.Len(t, anomalies, 1)
	assert.Equal(t, MetricHeartRate, anomalies[0].Metric)
}

// Same immature-baseline hard-check coverage for the SpO2 drop-below and
// HRV drop-below-midpoint thresholds.
func TestCheckAnomaly_HardCheckFiresForSpO2AndHRVOnImmatureBaseline(t *testing.T) {
	twin := NewTwin()
	twin.AddSample("p4", Sample{MetricSpO2: 98, MetricHRV: 40})

	isAnomaly, _, anomalies := twin.CheckAnomaly("p4", Sample{MetricSpO2: 94, MetricHRV: 30})

	assert.True(t, isAnomaly)
	require.Len(t, anomalies, 2)
}

// A hard check never fires on a metric the established z-score branch
// already flagged, so no metric is double counted in the risk-score mean.
func TestCheckAnomaly_ZScoreBranchTakesPriorityOverHardCheck(t *testing.T) {
	twin := NewTwin()
	for i := 0; i < 50; i++ {
		twin.AddSample("p5", Sample{MetricHeartRate: 70 + float64(i%5)})
	}

	_, _, anomalies := twin.CheckAnomaly("p5", Sample{MetricHeartRate: 200})

	require.Len(t, anomalies, 1)
}

func TestLearningStatus_Thresholds(t *testing.T) {
	assert.Equal(t, StatusLearning, learningStatus(3))
	assert.Equal(t, StatusPreliminary, learningStatus(10))
	assert.Equal(t, StatusEstablished, learningStatus(45))
	assert.Equal(t, StatusMature, learningStatus(120))
}
