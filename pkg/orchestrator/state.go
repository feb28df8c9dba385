// Package orchestrator implements the fan-out, entropy-gated recursion, and
// risk-priority consolidation described in spec.md §4.4.
package orchestrator

import (
	"github.com/clinical/chestpain-copilot/pkg/diagnosis"
	"github.com/clinical/chestpain-copilot/pkg/patient"
)

// State is the AssessmentState produced by the Orchestrator for one
// PatientRecord. Primary is a reference into AgentResults, never an
// independent copy, per spec.md §3's ownership rule. Only when AgentResults
// is empty is Primary a standalone Unknown result.
type State struct {
	Record       *patient.Record
	AgentResults []diagnosis.Result
	Primary      *diagnosis.Result
	SafetyAlerts []string
	Confidence   float64
}
