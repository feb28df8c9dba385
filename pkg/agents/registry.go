package agents

import "github.com/clinical/chestpain-copilot/pkg/specialty"

// Registry maps a specialty tag to the Agent instance that handles it.
type Registry map[specialty.Tag]*Agent

// DefaultRegistry builds the comprehensive-sweep registry spec.md §4.4
// requires for the chest-pain protocol: every registered agent runs.
func DefaultRegistry() Registry {
	return Registry{
		specialty.Safety:           NewSafety(),
		specialty.Cardiology:       NewCardiology(),
		specialty.Gastroenterology: NewGastro(),
		specialty.Musculoskeletal:  NewMsk(),
		specialty.Pulmonary:        NewPulmonary(),
	}
}

// Tags returns the registry's keys in the fixed §4.4 registration order,
// which also fixes tie-break precedence for the orchestrator's stable sort.
func (r Registry) Tags() []specialty.Tag {
	out := make([]specialty.Tag, 0, len(specialty.All))
	for _, tag := range specialty.All {
		if _, ok := r[tag]; ok {
			out = append(out, tag)
		}
	}
	return out
}
