// Package progress defines the ProgressBus capability (spec.md §6): a
// fanout of intermediate assessment events to any subscribed UI, mirroring
// the teacher's ws_handler.go diagnosis-broadcast pattern generalized from
// one hardcoded event shape to the closed Event set the spec names.
package progress

import "time"

// Kind is the closed set of progress events spec.md §6 names.
type Kind string

const (
	KindAgentUpdate      Kind = "agent_update"
	KindAnalysisComplete Kind = "analysis_complete"
)

// Event is one progress update for a patient's in-flight assessment.
type Event struct {
	Kind      Kind      `json:"type"`
	PatientID string    `json:"patient_id"`
	Timestamp time.Time `json:"timestamp"`
	Agent     string    `json:"agent,omitempty"`
	Status    string    `json:"status,omitempty"`
	Payload   any       `json:"payload,omitempty"`
}

// Bus is the ProgressBus capability: broadcast an event, subscribe to a
// patient's event stream.
type Bus interface {
	Publish(event Event)
	Subscribe(patientID string) (ch <-chan Event, cancel func())
}
