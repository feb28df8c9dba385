// Package healthtwin implements the per-patient incremental baseline
// learner and z-score anomaly detector of spec.md §4.7.
package healthtwin

import (
	"math"
	"sort"
	"time"
)

// Metric is the closed set of metrics the Health Twin tracks.
type Metric string

const (
	MetricHeartRate        Metric = "heart_rate"
	MetricHRV              Metric = "hrv_rmssd"
	MetricSpO2             Metric = "spo2"
	MetricRespiratoryRate   Metric = "respiratory_rate"
	MetricBPSystolic       Metric = "bp_sys"
	MetricBPDiastolic      Metric = "bp_dia"
)

// Baseline is the learned per-(patient,metric) statistical summary.
type Baseline struct {
	Mean        float64
	Std         float64
	Min         float64
	Max         float64
	P5          float64
	P95         float64
	SampleCount int
	LastUpdated time.Time

	// m2 is Welford's running sum of squared deviations from the mean.
	m2 float64
	// reservoir is a bounded recent-value sample used to approximate p5/p95
	// without retaining the full history, per spec.md §4.7's allowance that
	// "implementations may keep a bounded reservoir rather than the full
	// history".
	reservoir []float64
}

const reservoirCap = 500

// addSample updates mean/std via Welford's online algorithm and recomputes
// percentiles every 100 samples.
func (b *Baseline) addSample(value float64) {
	if b.SampleCount == 0 {
		b.Mean = value
		b.Min = value
		b.Max = value
		b.P5 = value
		b.P95 = value
		b.SampleCount = 1
		b.reservoir = append(b.reservoir, value)
		return
	}

	n := b.SampleCount + 1
	delta := value - b.Mean
	newMean := b.Mean + delta/float64(n)
	b.m2 += delta * (value - newMean)
	b.Mean = newMean
	b.SampleCount = n
	if n > 1 {
		b.Std = math.Sqrt(b.m2 / float64(n))
	}

	if value < b.Min {
		b.Min = value
	}
	if value > b.Max {
		b.Max = value
	}

	if len(b.reservoir) < reservoirCap {
		b.reservoir = append(b.reservoir, value)
	} else {
		b.reservoir[n%reservoirCap] = value
	}

	if n%100 == 0 {
		b.recomputePercentiles()
	}
}

func (b *Baseline) recomputePercentiles() {
	if len(b.reservoir) == 0 {
		return
	}
	sorted := append([]float64(nil), b.reservoir...)
	sort.Float64s(sorted)
	b.P5 = percentile(sorted, 5)
	b.P95 = percentile(sorted, 95)
}

func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(p / 100 * float64(n-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}
