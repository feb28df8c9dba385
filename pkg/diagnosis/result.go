package diagnosis

// Result is the output of any agent invocation: a ranked hypothesis with
// supporting evidence and, for non-leaf invocations, the sub-agent results
// it was synthesized from.
type Result struct {
	Kind                Kind
	Confidence          float64
	Risk                Risk
	Reasoning           string
	Recommendations     []string
	SupportingEvidence  map[string]any
	AgentName           string
	Depth               int
	Children            []Result
}

// Clamp caps Confidence to [0,1], per the normative "final min(score,1.0)
// clamp" rule in spec.md §4.3/§9.
func (r *Result) Clamp() {
	if r.Confidence < 0 {
		r.Confidence = 0
	}
	if r.Confidence > 1 {
		r.Confidence = 1
	}
}

// New builds a Result with initialized collection fields.
func New(kind Kind, confidence float64, risk Risk, agentName string, depth int) Result {
	r := Result{
		Kind:               kind,
		Confidence:         confidence,
		Risk:               risk,
		AgentName:          agentName,
		Depth:              depth,
		Recommendations:    []string{},
		SupportingEvidence: map[string]any{},
	}
	r.Clamp()
	return r
}
