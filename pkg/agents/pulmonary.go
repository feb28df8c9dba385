package agents

import (
	"github.com/clinical/chestpain-copilot/pkg/diagnosis"
	"github.com/clinical/chestpain-copilot/pkg/features"
	"github.com/clinical/chestpain-copilot/pkg/patient"
	"github.com/clinical/chestpain-copilot/pkg/specialty"
)

// PulmonaryCore implements spec.md §4.3.5, including the §4.3.6 PE
// life-threat tie-break: a PE hypothesis at >= 0.4 confidence always wins
// regardless of whether another pulmonary hypothesis scored higher.
type PulmonaryCore struct{}

func NewPulmonary() *Agent { return New(&PulmonaryCore{}) }

func (p *PulmonaryCore) Tag() specialty.Tag { return specialty.Pulmonary }

func (p *PulmonaryCore) Hypothesize(rec *patient.Record, bag features.Bag, depth int) []diagnosis.Result {
	var out []diagnosis.Result

	pe, peOK := p.pe(bag, depth)
	if peOK {
		out = append(out, pe)
	}
	if r, ok := p.pneumothorax(bag, depth); ok {
		out = append(out, r)
	}
	if r, ok := p.pneumonia(bag, depth); ok {
		out = append(out, r)
	}
	if r, ok := p.pleuritis(bag, depth); ok {
		out = append(out, r)
	}

	// §4.3.6 life-threat tie-break: PE >= 0.4 always wins this agent's vote,
	// even if another pulmonary hypothesis scored higher.
	if peOK && pe.Confidence >= 0.4 {
		return []diagnosis.Result{pe}
	}

	return out
}

func (p *PulmonaryCore) pe(bag features.Bag, depth int) (diagnosis.Result, bool) {
	score := 0.0
	if bag.B("leg_swelling") {
		score += 0.30
	}
	if bag.B("hr_gt_100") {
		score += 0.20
	}
	if bag.B("recent_surgery_or_immobilization") {
		score += 0.25
	}
	if bag.B("hemoptysis") {
		score += 0.15
	}
	if bag.B("dyspnea") && bag.B("sudden_onset") {
		score += 0.25
	}
	if bag.B("hypoxia") {
		score += 0.30
	}
	if bag.B("pleuritic") {
		score += 0.15
	}
	if bag.B("elevated_d_dimer") {
		score += 0.20
	}
	if bag.B("age_gt_60") {
		score += 0.10
	}
	score = capScore(score)
	if score <= EmissionFloor {
		return diagnosis.Result{}, false
	}
	risk := diagnosis.High
	if score > 0.6 {
		risk = diagnosis.Critical
	}
	r := diagnosis.New(diagnosis.PE, score, risk, string(specialty.Pulmonary), depth)
	r.Reasoning = "Risk-factor and symptom cluster consistent with pulmonary embolism."
	r.Recommendations = []string{"STAT CT pulmonary angiogram", "Consider anticoagulation", "D-dimer if not already drawn"}
	return r, true
}

func (p *PulmonaryCore) pneumothorax(bag features.Bag, depth int) (diagnosis.Result, bool) {
	score := 0.0
	if bag.B("sudden_onset") {
		score += 0.35
	}
	if bag.B("pleuritic") {
		score += 0.25
	}
	if bag.B("dyspnea") {
		score += 0.20
	}
	if bag.B("unilateral") {
		score += 0.20
	}
	if bag.B("age_15_35") {
		score += 0.15
	}
	if bag.B("hypoxia") {
		score += 0.20
	}
	if bag.B("tachypnea") {
		score += 0.15
	}
	score = capScore(score)
	if score <= EmissionFloor {
		return diagnosis.Result{}, false
	}
	r := diagnosis.New(diagnosis.Pneumothorax, score, diagnosis.High, string(specialty.Pulmonary), depth)
	r.Reasoning = "Sudden-onset unilateral pleuritic pain consistent with pneumothorax."
	r.Recommendations = []string{"STAT chest X-ray", "Consider chest tube if large/tension"}
	return r, true
}

func (p *PulmonaryCore) pneumonia(bag features.Bag, depth int) (diagnosis.Result, bool) {
	score := 0.0
	if bag.B("fever") {
		score += 0.30
	}
	if bag.B("cough") {
		score += 0.25
	}
	if bag.B("dyspnea") {
		score += 0.20
	}
	if bag.B("wbc_gt_12") {
		score += 0.25
	}
	if bag.B("tachypnea") {
		score += 0.15
	}
	if bag.B("pleuritic") {
		score += 0.15
	}
	if bag.B("age_ge_65") {
		score += 0.15
	}
	if bag.B("hypoxia") {
		score += 0.20
	}
	score = capScore(score)
	if score <= EmissionFloor {
		return diagnosis.Result{}, false
	}
	r := diagnosis.New(diagnosis.Pneumonia, score, diagnosis.Moderate, string(specialty.Pulmonary), depth)
	r.Reasoning = "Fever, cough, and leukocytosis consistent with pneumonia."
	r.Recommendations = []string{"Chest X-ray", "Empiric antibiotics per severity score", "Blood cultures if admitted"}
	return r, true
}

func (p *PulmonaryCore) pleuritis(bag features.Bag, depth int) (diagnosis.Result, bool) {
	score := 0.0
	if bag.B("pleuritic") {
		score += 0.40
	}
	if bag.B("unilateral") {
		score += 0.20
	}
	if bag.B("dyspnea") && !bag.B("hypoxia") {
		score += 0.15
	}
	if bag.B("fever") && !bag.B("wbc_elevated") {
		score += 0.15
	}
	if !bag.B("hypoxia") {
		score += 0.10
	}
	score = capScore(score)
	if score <= 0.25 {
		return diagnosis.Result{}, false
	}
	r := diagnosis.New(diagnosis.Pleuritis, score, diagnosis.Low, string(specialty.Pulmonary), depth)
	r.Reasoning = "Isolated pleuritic pain without hypoxia or systemic infection markers."
	r.Recommendations = []string{"NSAIDs", "Outpatient follow-up if stable"}
	return r, true
}

func (p *PulmonaryCore) IdentifySubspecialties(_ []diagnosis.Result) []string { return nil }
func (p *PulmonaryCore) SpawnChild(_ string) Core                             { return nil }

func (p *PulmonaryCore) Fallback() diagnosis.Result {
	r := diagnosis.New(diagnosis.NonCardiacChestPain, 0.1, diagnosis.Low, string(specialty.Pulmonary), 0)
	r.Reasoning = "No pulmonary hypothesis cleared the emission floor."
	r.Recommendations = []string{"Continue standard chest-pain workup"}
	return r
}
