// Package specialty enumerates the closed set of specialty agent tags.
package specialty

// Tag is the closed set of specialty agent identifiers.
type Tag string

const (
	Safety           Tag = "Safety"
	Cardiology       Tag = "Cardiology"
	Gastroenterology Tag = "Gastroenterology"
	Musculoskeletal  Tag = "Musculoskeletal"
	Pulmonary        Tag = "Pulmonary"
)

// All is the comprehensive-sweep registry order used by the orchestrator:
// every registered agent runs for the chest-pain protocol (spec.md §4.4).
// Order also fixes tie-break precedence for a stable consolidation sort.
var All = []Tag{Safety, Cardiology, Gastroenterology, Musculoskeletal, Pulmonary}

func (t Tag) Valid() bool {
	switch t {
	case Safety, Cardiology, Gastroenterology, Musculoskeletal, Pulmonary:
		return true
	}
	return false
}
