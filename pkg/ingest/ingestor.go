// Package ingest implements the RealtimeIngestor pipeline of spec.md §4.8:
// sanitize → ring buffer → anomaly check against the prior baseline →
// baseline update → conditional LLM call → conditional alert fanout →
// progress broadcast.
package ingest

import (
	"context"
	"time"

	"github.com/clinical/chestpain-copilot/pkg/alerts"
	"github.com/clinical/chestpain-copilot/pkg/healthtwin"
	"github.com/clinical/chestpain-copilot/pkg/llm"
	"github.com/clinical/chestpain-copilot/pkg/progress"
	"github.com/clinical/chestpain-copilot/pkg/vitals"
)

// DefaultLLMDeadline is the default cancellable deadline for the
// LLMBackend.analyze_medical_vitals call, per spec.md §5.
const DefaultLLMDeadline = 10 * time.Second

// Outcome is the IngestOutcome typed result spec.md §7/§9 calls for: every
// sample produces one of these, never a framework exception.
type Outcome struct {
	Status     string // "success" or "error"
	Message    string // populated only when Status == "error"
	IsAnomaly  bool
	RiskScore  float64
	Diagnosis  string
	Confidence float64
	RiskLevel  string
	AlertSent  bool
}

// Ingestor wires the ring buffer, Health Twin, LLM backend, alert sink and
// progress bus collaborators spec.md §6 names only by interface.
type Ingestor struct {
	Rings    *vitals.Registry
	Twin     *healthtwin.Twin
	Backend  llm.Backend
	Sink     alerts.Sink
	Bus      progress.Bus
	Deadline time.Duration
}

// New builds an Ingestor with DefaultLLMDeadline; collaborators are
// required, matching spec.md §7's FatalConfig posture (callers should
// validate before wiring one of these in).
func New(rings *vitals.Registry, twin *healthtwin.Twin, backend llm.Backend, sink alerts.Sink, bus progress.Bus) *Ingestor {
	return &Ingestor{Rings: rings, Twin: twin, Backend: backend, Sink: sink, Bus: bus, Deadline: DefaultLLMDeadline}
}

// Ingest runs one sample through the full pipeline, per spec.md §4.8.
func (ing *Ingestor) Ingest(ctx context.Context, raw vitals.Sample) Outcome {
	sample := raw.Sanitize()
	ing.Rings.Push(sample)

	ing.broadcast(sample.PatientID, progress.KindAgentUpdate, "health_twin", "analyzing")

	// Check against the baseline as it stood before this sample, then fold
	// the sample in: baseline min/max update monotonically to the incoming
	// value, so checking after the update would make the HR/SpO2 hard
	// checks in HealthTwin.CheckAnomaly unreachable for any new extreme.
	twinSample := toTwinSample(sample)
	isAnomaly, riskScore, _ := ing.Twin.CheckAnomaly(sample.PatientID, twinSample)
	ing.Twin.AddSample(sample.PatientID, twinSample)
	if !isAnomaly {
		ing.broadcast(sample.PatientID, progress.KindAnalysisComplete, "health_twin", "normal")
		return Outcome{Status: "success", IsAnomaly: false}
	}

	analysis, err := ing.analyze(ctx, sample, riskScore)
	if err != nil {
		return Outcome{Status: "error", Message: err.Error(), IsAnomaly: true, RiskScore: riskScore}
	}

	outcome := Outcome{
		Status:     "success",
		IsAnomaly:  true,
		RiskScore:  riskScore,
		Diagnosis:  analysis.Diagnosis,
		Confidence: analysis.Confidence / 100,
		RiskLevel:  analysis.RiskLevel,
	}

	if outcome.RiskLevel == "HIGH" || outcome.RiskLevel == "CRITICAL" {
		alert := alerts.New(sample.PatientID, analysis.Diagnosis, outcome.Confidence, analysis.RiskLevel, vitalsToMap(sample))
		if sendErr := ing.Sink.Fanout(ctx, alert); sendErr == nil {
			outcome.AlertSent = true
		}
		// AlertDeliveryFailure is never retried inline (spec.md §7) and no
		// metric counts it; it shows only as AlertSent == false, and the
		// assessment/ingestion continues regardless.
	}

	ing.broadcast(sample.PatientID, progress.KindAnalysisComplete, "llm_backend", outcome.RiskLevel)
	return outcome
}

func (ing *Ingestor) analyze(ctx context.Context, sample vitals.Sample, riskScore float64) (llm.VitalsAnalysis, error) {
	deadline := ing.Deadline
	if deadline <= 0 {
		deadline = DefaultLLMDeadline
	}
	callCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	hr, hrv, spo2 := fieldOrZero(sample.HeartRate), fieldOrZero(sample.HRVRMSSD), fieldOrZero(sample.SpO2)
	analysis, err := ing.Backend.AnalyzeMedicalVitals(callCtx, hr, hrv, spo2, nil)
	if err != nil {
		return llm.FallbackFromSeverity(riskScore), nil
	}
	if analysis.Diagnosis == "" || analysis.RiskLevel == "" {
		return llm.FallbackFromSeverity(riskScore), nil
	}
	return analysis, nil
}

func (ing *Ingestor) broadcast(patientID string, kind progress.Kind, agent, status string) {
	ing.Bus.Publish(progress.Event{
		Kind:      kind,
		PatientID: patientID,
		Timestamp: time.Now(),
		Agent:     agent,
		Status:    status,
	})
}

func toTwinSample(s vitals.Sample) healthtwin.Sample {
	out := healthtwin.Sample{}
	if s.HeartRate != nil {
		out[healthtwin.MetricHeartRate] = *s.HeartRate
	}
	if s.HRVRMSSD != nil {
		out[healthtwin.MetricHRV] = *s.HRVRMSSD
	}
	if s.SpO2 != nil {
		out[healthtwin.MetricSpO2] = *s.SpO2
	}
	if s.RespiratoryRate != nil {
		out[healthtwin.MetricRespiratoryRate] = *s.RespiratoryRate
	}
	if s.BPSystolic != nil {
		out[healthtwin.MetricBPSystolic] = *s.BPSystolic
	}
	if s.BPDiastolic != nil {
		out[healthtwin.MetricBPDiastolic] = *s.BPDiastolic
	}
	return out
}

func vitalsToMap(s vitals.Sample) map[string]float64 {
	out := map[string]float64{}
	if s.HeartRate != nil {
		out["heart_rate"] = *s.HeartRate
	}
	if s.SpO2 != nil {
		out["spo2"] = *s.SpO2
	}
	if s.RespiratoryRate != nil {
		out["respiratory_rate"] = *s.RespiratoryRate
	}
	if s.BPSystolic != nil {
		out["bp_sys"] = *s.BPSystolic
	}
	if s.BPDiastolic != nil {
		out["bp_dia"] = *s.BPDiastolic
	}
	return out
}

func fieldOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
