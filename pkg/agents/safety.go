package agents

import (
	"github.com/clinical/chestpain-copilot/pkg/diagnosis"
	"github.com/clinical/chestpain-copilot/pkg/features"
	"github.com/clinical/chestpain-copilot/pkg/patient"
	"github.com/clinical/chestpain-copilot/pkg/specialty"
)

// SafetyCore implements spec.md §4.3.1. It always runs at depth 0 and never
// recurses: IdentifySubspecialties always returns nil.
type SafetyCore struct{}

func NewSafety() *Agent { return New(&SafetyCore{}) }

func (s *SafetyCore) Tag() specialty.Tag { return specialty.Safety }

func (s *SafetyCore) Hypothesize(rec *patient.Record, bag features.Bag, depth int) []diagnosis.Result {
	var out []diagnosis.Result

	troponin := bag.N("troponin_latest")
	troponinSeries := rec.Labs.Get(patient.Troponin)
	rising := troponinSeries.Trend() == patient.TrendRising
	if _, ok := troponinSeries.Latest(); ok && troponin >= 0.5 && rising {
		r := diagnosis.New(diagnosis.STEMI, 0.95, diagnosis.Critical, string(specialty.Safety), depth)
		r.Reasoning = "Troponin >= 0.5 ng/mL with a rising trend meets the STEMI safety-net alert threshold."
		r.Recommendations = []string{"Immediate cath lab activation", "STAT 12-lead ECG", "Notify cardiology on call"}
		r.SupportingEvidence["troponin_latest"] = troponin
		r.SupportingEvidence["troponin_trend"] = string(troponinSeries.Trend())
		out = append(out, r)
	}

	sbp, sbpOK := rec.Vitals.Get(patient.BPSystolic)
	spo2, spo2OK := rec.Vitals.Get(patient.OxygenSaturation)
	if sbpOK && spo2OK && sbp < 90 && spo2 < 90 {
		r := diagnosis.New(diagnosis.MassivePE, 0.85, diagnosis.Critical, string(specialty.Safety), depth)
		r.Reasoning = "Hypotension with hypoxemia meets the massive pulmonary embolism safety-net alert threshold."
		r.Recommendations = []string{"Immediate hemodynamic support", "STAT CT pulmonary angiogram", "Consider thrombolysis"}
		r.SupportingEvidence["bp_sys"] = sbp
		r.SupportingEvidence["oxygen_saturation"] = spo2
		out = append(out, r)
	}

	qsofa := 0.0
	rr, rrOK := rec.Vitals.Get(patient.RespiratoryRate)
	if rrOK && rr >= 22 {
		qsofa += 1
	}
	if sbpOK && sbp <= 100 {
		qsofa += 1
	}
	temp, tempOK := rec.Vitals.Get(patient.Temperature)
	if tempOK && (temp >= 101 || temp <= 96.8) {
		qsofa += 0.5
	}
	if qsofa >= 2 {
		r := diagnosis.New(diagnosis.Sepsis, 0.75, diagnosis.Critical, string(specialty.Safety), depth)
		r.Reasoning = "qSOFA score >= 2 meets the sepsis safety-net alert threshold."
		r.Recommendations = []string{"Initiate sepsis bundle", "Blood cultures and lactate", "Broad-spectrum antibiotics within 1 hour"}
		r.SupportingEvidence["qsofa_score"] = qsofa
		out = append(out, r)
	}

	return out
}

func (s *SafetyCore) IdentifySubspecialties(_ []diagnosis.Result) []string { return nil }
func (s *SafetyCore) SpawnChild(_ string) Core                             { return nil }

func (s *SafetyCore) Fallback() diagnosis.Result {
	r := diagnosis.New(diagnosis.Unknown, 0, diagnosis.Low, string(specialty.Safety), 0)
	r.Reasoning = "No immediate life-threat safety-net criteria met."
	r.Recommendations = []string{"Continue standard chest-pain workup"}
	return r
}
