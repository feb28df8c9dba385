// Package llm defines the LLMBackend capability spec.md §6 describes as
// "consumed, not implemented": a one-shot JSON-producing analysis call plus
// a free-form chat call, with a deterministic fallback when the backend is
// unavailable or returns a malformed response.
package llm

import (
	"context"
	"errors"
)

// ErrBackendUnavailable is the BackendUnavailable taxonomy entry from
// spec.md §7: the LLM call failed, timed out, or returned an unparseable
// response.
var ErrBackendUnavailable = errors.New("llm: backend unavailable")

// VitalsAnalysis is the result of AnalyzeMedicalVitals, per spec.md §6.
type VitalsAnalysis struct {
	Diagnosis       string
	Confidence      float64 // 0..100, per the wire contract in spec.md §6
	RiskLevel       string
	Reasoning       string
	Recommendations []string
}

// ChatTurn is one turn of conversational history passed to Analyze.
// spec.md §9 normalizes the malformed source "chat" signature to
// (message, history?, language?, temperature?); this is that history.
type ChatTurn struct {
	Role    string
	Content string
}

// AnalyzeResult is the result of Analyze, per spec.md §6.
type AnalyzeResult struct {
	Text    string
	Success bool
	Error   string
}

// Backend is the LLMBackend capability. Implementations must be safe for
// concurrent use and must respect ctx's deadline (spec.md §5: "cancellable
// with a deadline, default 10s").
type Backend interface {
	// AnalyzeMedicalVitals is the one-shot JSON analysis call the real-time
	// ingestion pipeline uses (spec.md §4.8 step 4).
	AnalyzeMedicalVitals(ctx context.Context, hr, hrv, spo2 float64, history []ChatTurn) (VitalsAnalysis, error)

	// Analyze is the general free-form call, e.g. for narrative summaries.
	Analyze(ctx context.Context, message string, history []ChatTurn, language, temperature string) (AnalyzeResult, error)
}
