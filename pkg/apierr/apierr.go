// Package apierr implements the error taxonomy spec.md §7 names, mapping
// each typed outcome to the HTTP status the boundary should return.
package apierr

import "fmt"

// ValidationError is malformed or out-of-range input at the boundary.
// Recovered by rejection (400) in the sync path; in the stream path the
// offending field is dropped and ingestion continues.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Msg)
}

// AgentError records that a specialty agent crashed, timed out, or
// returned no hypotheses. The orchestrator recovers locally: it omits the
// agent from agent_results and appends "AGENT_ERROR:<id>" to safety_alerts.
type AgentError struct {
	AgentID string
	Cause   error
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("agent %s: %v", e.AgentID, e.Cause)
}

func (e *AgentError) Unwrap() error { return e.Cause }

// SafetyAlertTag is the string appended to safety_alerts for a recovered
// AgentError, per spec.md §4.4 / §7.
func (e *AgentError) SafetyAlertTag() string {
	return "AGENT_ERROR:" + e.AgentID
}

// FatalConfig signals a missing required collaborator at startup. The
// process refuses to start rather than run with an incomplete wiring.
type FatalConfig struct {
	Component string
	Reason    string
}

func (e *FatalConfig) Error() string {
	return fmt.Sprintf("fatal config: %s: %s", e.Component, e.Reason)
}

// Status maps a taxonomy error to the HTTP status code the boundary
// should respond with. Errors outside the taxonomy default to 500.
func Status(err error) int {
	switch err.(type) {
	case *ValidationError:
		return 400
	case *FatalConfig:
		return 500
	default:
		return 500
	}
}
