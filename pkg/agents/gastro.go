package agents

import (
	"github.com/clinical/chestpain-copilot/pkg/diagnosis"
	"github.com/clinical/chestpain-copilot/pkg/features"
	"github.com/clinical/chestpain-copilot/pkg/patient"
	"github.com/clinical/chestpain-copilot/pkg/specialty"
)

// GastroCore implements spec.md §4.3.3. It never defines a subspecialty, so
// high entropy never triggers recursion for this agent.
type GastroCore struct{}

func NewGastro() *Agent { return New(&GastroCore{}) }

func (g *GastroCore) Tag() specialty.Tag { return specialty.Gastroenterology }

func (g *GastroCore) Hypothesize(rec *patient.Record, bag features.Bag, depth int) []diagnosis.Result {
	var out []diagnosis.Result

	if r, ok := g.gerd(bag, depth); ok {
		out = append(out, r)
	}
	if r, ok := g.spasm(bag, depth); ok {
		out = append(out, r)
	}
	if r, ok := g.pud(bag, depth); ok {
		out = append(out, r)
	}
	if r, ok := g.biliary(bag, depth); ok {
		out = append(out, r)
	}
	if r, ok := g.pancreatitis(bag, depth); ok {
		out = append(out, r)
	}

	return out
}

func (g *GastroCore) gerd(bag features.Bag, depth int) (diagnosis.Result, bool) {
	score := 0.0
	if bag.B("burning") {
		score += 0.25
	}
	if bag.B("meal_related") {
		score += 0.20
	}
	if bag.B("positional") {
		score += 0.20
	}
	if bag.B("relieved_by_antacids") {
		score += 0.25
	}
	if bag.B("history_gerd") {
		score += 0.30
	}
	if bag.B("age_in_40_70") {
		score += 0.10
	}
	score = capScore(score)
	if score <= EmissionFloor {
		return diagnosis.Result{}, false
	}

	risk := diagnosis.Low
	r := diagnosis.New(diagnosis.GERD, score, risk, string(specialty.Gastroenterology), depth)
	r.Recommendations = []string{"Trial of PPI therapy", "Dietary modification counseling"}

	alarm := bag.B("dysphagia") || bag.B("age_gt_60")
	if alarm {
		r.Risk = diagnosis.Moderate
		r.Recommendations = append([]string{"Urgent EGD recommended"}, r.Recommendations...)
	}
	r.Reasoning = "Chief-complaint and history features consistent with GERD."
	return r, true
}

func (g *GastroCore) spasm(bag features.Bag, depth int) (diagnosis.Result, bool) {
	score := 0.0
	if bag.B("dysphagia") {
		score += 0.35
	}
	if bag.B("burning") {
		score += 0.15
	}
	if bag.B("normal_troponin") {
		score += 0.20
	}
	if score > 0.7 {
		score = 0.7
	}
	if score <= EmissionFloor {
		return diagnosis.Result{}, false
	}
	r := diagnosis.New(diagnosis.EsophagealSpasm, score, diagnosis.Low, string(specialty.Gastroenterology), depth)
	r.Reasoning = "Dysphagia and burning pain with a normal troponin suggest esophageal spasm."
	r.Recommendations = []string{"Esophageal manometry if recurrent", "Trial of calcium channel blocker"}
	return r, true
}

func (g *GastroCore) pud(bag features.Bag, depth int) (diagnosis.Result, bool) {
	score := 0.0
	if bag.B("epigastric") {
		score += 0.30
	}
	if bag.B("burning") {
		score += 0.20
	}
	if bag.B("history_pud") {
		score += 0.35
	}
	if bag.B("nsaid") {
		score += 0.25
	}
	if bag.B("nausea") {
		score += 0.15
	}
	score = capScore(score)
	if score <= EmissionFloor {
		return diagnosis.Result{}, false
	}
	r := diagnosis.New(diagnosis.PUD, score, diagnosis.Low, string(specialty.Gastroenterology), depth)
	r.Reasoning = "Epigastric burning pain with NSAID use/history consistent with peptic ulcer disease."
	r.Recommendations = []string{"Trial of PPI therapy", "Consider H. pylori testing", "Discontinue NSAIDs"}
	return r, true
}

func (g *GastroCore) biliary(bag features.Bag, depth int) (diagnosis.Result, bool) {
	score := 0.0
	if bag.B("ruq") {
		score += 0.35
	}
	if bag.B("female") {
		score += 0.15
	}
	if bag.B("age_ge_40") {
		score += 0.10
	}
	if bag.B("meal_related") {
		score += 0.25
	}
	if bag.B("back_radiation") {
		score += 0.20
	}
	if bag.B("history_gallstones") {
		score += 0.40
	}
	if bag.B("wbc_elevated") {
		score += 0.15
	}
	score = capScore(score)
	if score <= EmissionFloor {
		return diagnosis.Result{}, false
	}
	r := diagnosis.New(diagnosis.BiliaryColic, score, diagnosis.Low, string(specialty.Gastroenterology), depth)
	r.Reasoning = "RUQ, meal-related pain pattern consistent with biliary colic."
	r.Recommendations = []string{"RUQ ultrasound", "Surgical consult if cholelithiasis confirmed"}
	return r, true
}

// pancreatitis implements the two-of-three criteria rule from spec.md
// §4.3.3: it requires at least one criterion met, else score is 0.
func (g *GastroCore) pancreatitis(bag features.Bag, depth int) (diagnosis.Result, bool) {
	score := 0.0
	criteriaMet := 0

	if bag.B("epigastric") && bag.B("back_radiation") {
		score += 0.35
		criteriaMet++
	}
	if bag.B("lipase_elevated") {
		score += 0.50
		criteriaMet++
	} else if bag.B("amylase_elevated") {
		score += 0.45
		criteriaMet++
	}

	if bag.B("alcohol") {
		score += 0.20
	}
	if bag.B("history_gallstones") {
		score += 0.25
	}

	if criteriaMet == 0 {
		return diagnosis.Result{}, false
	}

	score = capScore(score)
	if score <= EmissionFloor {
		return diagnosis.Result{}, false
	}

	risk := diagnosis.Moderate
	if score >= 0.7 {
		risk = diagnosis.High
	}
	r := diagnosis.New(diagnosis.Pancreatitis, score, risk, string(specialty.Gastroenterology), depth)
	r.Reasoning = "Two-of-three pancreatitis criteria met (pain pattern and/or enzyme elevation)."
	r.SupportingEvidence["criteria_met"] = criteriaMet
	r.Recommendations = []string{"IV fluid resuscitation", "NPO status", "Abdominal CT/ultrasound"}
	return r, true
}

func (g *GastroCore) IdentifySubspecialties(_ []diagnosis.Result) []string { return nil }
func (g *GastroCore) SpawnChild(_ string) Core                             { return nil }

func (g *GastroCore) Fallback() diagnosis.Result {
	r := diagnosis.New(diagnosis.NonCardiacChestPain, 0.1, diagnosis.Low, string(specialty.Gastroenterology), 0)
	r.Reasoning = "No gastrointestinal hypothesis cleared the emission floor."
	r.Recommendations = []string{"Continue standard chest-pain workup"}
	return r
}

func capScore(score float64) float64 {
	if score > 1.0 {
		return 1.0
	}
	return score
}
