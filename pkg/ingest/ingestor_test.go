package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical/chestpain-copilot/pkg/alerts"
	"github.com/clinical/chestpain-copilot/pkg/healthtwin"
	"github.com/clinical/chestpain-copilot/pkg/llm"
	"github.com/clinical/chestpain-copilot/pkg/progress"
	"github.com/clinical/chestpain-copilot/pkg/vitals"
)

// stubBackend returns a fixed VitalsAnalysis for every call, so tests can
// drive the pipeline's RiskLevel branch deterministically.
type stubBackend struct {
	analysis llm.VitalsAnalysis
	err      error
}

func (b *stubBackend) AnalyzeMedicalVitals(ctx context.Context, hr, hrv, spo2 float64, history []llm.ChatTurn) (llm.VitalsAnalysis, error) {
	return b.analysis, b.err
}

func (b *stubBackend) Analyze(ctx context.Context, message string, history []llm.ChatTurn, language, temperature string) (llm.AnalyzeResult, error) {
	return llm.AnalyzeResult{}, nil
}

func f(v float64) *float64 { return &v }

func seedBaseline(ing *Ingestor, patientID string, n int) {
	for i := 0; i < n; i++ {
		ing.Twin.AddSample(patientID, healthtwin.Sample{healthtwin.MetricHeartRate: 75})
	}
}

func newTestIngestor(backend llm.Backend) (*Ingestor, *alerts.MemorySink) {
	sink := alerts.NewMemorySink()
	ing := New(vitals.NewRegistry(64), healthtwin.NewTwin(), backend, sink, progress.NewMemoryBus())
	return ing, sink
}

// P8: an alert is fanned out if and only if the resulting RiskLevel is HIGH
// or CRITICAL.
func TestIngest_AlertsIffHighOrCriticalRisk(t *testing.T) {
	cases := []struct {
		riskLevel   string
		expectAlert bool
	}{
		{"LOW", false},
		{"MODERATE", false},
		{"HIGH", true},
		{"CRITICAL", true},
	}

	for _, tc := range cases {
		backend := &stubBackend{analysis: llm.VitalsAnalysis{Diagnosis: "tachycardia", Confidence: 80, RiskLevel: tc.riskLevel}}
		ing, sink := newTestIngestor(backend)
		seedBaseline(ing, "p1", 50)

		outcome := ing.Ingest(context.Background(), vitals.Sample{PatientID: "p1", HeartRate: f(220)})

		require.Equal(t, "success", outcome.Status)
		assert.Equal(t, tc.expectAlert, outcome.AlertSent, "risk level %s", tc.riskLevel)
		assert.Equal(t, tc.expectAlert, len(sink.Sent()) == 1, "risk level %s", tc.riskLevel)
	}
}

func TestIngest_NoAnomalyNeverCallsBackendOrAlerts(t *testing.T) {
	backend := &stubBackend{analysis: llm.VitalsAnalysis{Diagnosis: "x", Confidence: 50, RiskLevel: "CRITICAL"}}
	ing, sink := newTestIngestor(backend)
	seedBaseline(ing, "p1", 50)

	outcome := ing.Ingest(context.Background(), vitals.Sample{PatientID: "p1", HeartRate: f(75)})

	assert.False(t, outcome.IsAnomaly)
	assert.False(t, outcome.AlertSent)
	assert.Empty(t, sink.Sent())
}

func TestIngest_BackendFailureFallsBackDeterministically(t *testing.T) {
	ing, _ := newTestIngestor(&stubBackend{err: llm.ErrBackendUnavailable})
	seedBaseline(ing, "p1", 50)

	outcome := ing.Ingest(context.Background(), vitals.Sample{PatientID: "p1", HeartRate: f(220)})

	require.Equal(t, "success", outcome.Status)
	assert.True(t, outcome.IsAnomaly)
	assert.NotEmpty(t, outcome.RiskLevel)
}
