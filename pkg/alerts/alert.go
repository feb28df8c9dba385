// Package alerts defines the AlertSink capability and the Alert envelope
// spec.md §6 describes, plus an in-memory and a NATS-backed implementation.
package alerts

import (
	"context"
	"errors"
	"time"
)

// ErrDeliveryFailed is the AlertDeliveryFailure taxonomy entry (spec.md §7):
// returned to the caller, never retried inline, assessment continues. No
// metric records it.
var ErrDeliveryFailed = errors.New("alerts: delivery failed")

// Fixed, ordered action list spec.md §4.8 step 5 mandates for every
// high-risk alert.
var StandardActions = []string{
	"SMS to emergency contact",
	"ER notification",
	"push notification",
	"chatbot activation",
}

// Alert is the wire envelope delivered to a Sink, per spec.md §6.
type Alert struct {
	Timestamp    time.Time          `json:"timestamp"`
	PatientID    string             `json:"patient_id"`
	Diagnosis    string             `json:"diagnosis"`
	Confidence   float64            `json:"confidence"`
	RiskLevel    string             `json:"risk_level"`
	Vitals       map[string]float64 `json:"vitals"`
	ActionsTaken []string           `json:"actions_taken"`
}

// New builds an Alert with the standard action list already attached.
func New(patientID, diagnosis string, confidence float64, riskLevel string, vitals map[string]float64) Alert {
	return Alert{
		Timestamp:    time.Now(),
		PatientID:    patientID,
		Diagnosis:    diagnosis,
		Confidence:   confidence,
		RiskLevel:    riskLevel,
		Vitals:       vitals,
		ActionsTaken: append([]string(nil), StandardActions...),
	}
}

// Sink is the AlertSink capability: "out-of-band notification fanout"
// (spec.md §6). Implementations must not block the ingestion path for long;
// failures are surfaced, never retried inline (spec.md §7).
type Sink interface {
	Fanout(ctx context.Context, alert Alert) error
}
