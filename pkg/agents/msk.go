package agents

import (
	"github.com/clinical/chestpain-copilot/pkg/diagnosis"
	"github.com/clinical/chestpain-copilot/pkg/features"
	"github.com/clinical/chestpain-copilot/pkg/patient"
	"github.com/clinical/chestpain-copilot/pkg/specialty"
)

// MskCore implements spec.md §4.3.4.
type MskCore struct{}

func NewMsk() *Agent { return New(&MskCore{}) }

func (m *MskCore) Tag() specialty.Tag { return specialty.Musculoskeletal }

func (m *MskCore) Hypothesize(rec *patient.Record, bag features.Bag, depth int) []diagnosis.Result {
	var out []diagnosis.Result
	if r, ok := m.costochondritis(bag, depth); ok {
		out = append(out, r)
	}
	if r, ok := m.muscleStrain(bag, depth); ok {
		out = append(out, r)
	}
	if r, ok := m.ribFracture(bag, depth); ok {
		out = append(out, r)
	}
	return out
}

func (m *MskCore) costochondritis(bag features.Bag, depth int) (diagnosis.Result, bool) {
	score := 0.0
	if bag.B("reproducible_with_palpation") {
		score += 0.40
	}
	if bag.B("point_tenderness") {
		score += 0.25
	}
	if bag.B("sharp") {
		score += 0.15
	}
	if bag.B("worse_with_breathing") {
		score += 0.15
	}
	if bag.B("worse_with_movement") {
		score += 0.10
	}
	switch {
	case bag.B("age_20_40"):
		score += 0.20
	case bag.B("age_41_60"):
		score += 0.10
	}
	if bag.B("normal_troponin") {
		score += 0.15
	}
	score = capScore(score)
	if score <= EmissionFloor {
		return diagnosis.Result{}, false
	}
	r := diagnosis.New(diagnosis.Costochondritis, score, diagnosis.Low, string(specialty.Musculoskeletal), depth)
	r.Reasoning = "Reproducible point tenderness on palpation, normal troponin: consistent with costochondritis."
	r.Recommendations = []string{"NSAIDs", "Reassurance and outpatient follow-up"}
	return r, true
}

func (m *MskCore) muscleStrain(bag features.Bag, depth int) (diagnosis.Result, bool) {
	score := 0.0
	if bag.B("recent_exertion_or_trauma") {
		score += 0.35
	}
	if bag.B("worse_with_movement") {
		score += 0.30
	}
	if bag.B("reproducible_with_palpation") {
		score += 0.20
	}
	if bag.B("unilateral") {
		score += 0.15
	}
	if bag.B("sharp") {
		score += 0.10
	}
	if bag.B("age_lt_40") {
		score += 0.15
	}
	if bag.B("normal_troponin") {
		score += 0.10
	}
	score = capScore(score)
	if score <= EmissionFloor {
		return diagnosis.Result{}, false
	}
	r := diagnosis.New(diagnosis.MuscleStrain, score, diagnosis.Low, string(specialty.Musculoskeletal), depth)
	r.Reasoning = "Recent exertion/trauma with movement-provoked, reproducible pain: consistent with muscle strain."
	r.Recommendations = []string{"Rest and NSAIDs", "Activity modification"}
	return r, true
}

func (m *MskCore) ribFracture(bag features.Bag, depth int) (diagnosis.Result, bool) {
	score := 0.0
	if bag.B("recent_trauma") {
		score += 0.50
	}
	if bag.B("worse_with_breathing") {
		score += 0.25
	}
	if bag.B("point_tenderness") {
		score += 0.20
	}
	if bag.B("sharp") {
		score += 0.15
	}
	if bag.B("age_ge_65") {
		score += 0.20
	}
	if bag.B("swelling") {
		score += 0.15
	}
	score = capScore(score)
	if score <= EmissionFloor {
		return diagnosis.Result{}, false
	}
	risk := diagnosis.Low
	if score > 0.7 {
		risk = diagnosis.Moderate
	}
	r := diagnosis.New(diagnosis.RibFracture, score, risk, string(specialty.Musculoskeletal), depth)
	r.Reasoning = "Recent trauma with point tenderness and pain on breathing: consistent with rib fracture."
	r.Recommendations = []string{"Chest X-ray/rib series", "Incentive spirometry", "Analgesia"}
	return r, true
}

func (m *MskCore) IdentifySubspecialties(_ []diagnosis.Result) []string { return nil }
func (m *MskCore) SpawnChild(_ string) Core                             { return nil }

func (m *MskCore) Fallback() diagnosis.Result {
	r := diagnosis.New(diagnosis.NonCardiacChestPain, 0.1, diagnosis.Low, string(specialty.Musculoskeletal), 0)
	r.Reasoning = "No musculoskeletal hypothesis cleared the emission floor."
	r.Recommendations = []string{"Continue standard chest-pain workup"}
	return r
}
