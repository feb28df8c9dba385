// Package features derives the per-specialty clinical feature maps that the
// scoring engines in pkg/agents consume, per spec.md §4.1/§4.2.
package features

import (
	"github.com/clinical/chestpain-copilot/pkg/patient"
)

// Bag is the materialized boolean/numeric feature map for one record.
// Agents read from it by key rather than re-deriving features independently,
// so every scorer sees an identical view of the patient for a given input.
type Bag struct {
	Bool map[string]bool
	Num  map[string]float64
}

func newBag() Bag {
	return Bag{Bool: map[string]bool{}, Num: map[string]float64{}}
}

func (b Bag) B(key string) bool      { return b.Bool[key] }
func (b Bag) N(key string) float64   { return b.Num[key] }

// Extractor derives a Bag from a patient.Record. It holds no state: all
// inputs come from the record passed to Extract.
type Extractor struct{}

func NewExtractor() *Extractor { return &Extractor{} }

// Extract computes the full cross-specialty feature bag for rec. Individual
// scorers (pkg/agents) read only the subset relevant to them.
func (e *Extractor) Extract(rec *patient.Record) Bag {
	b := newBag()

	for k, v := range extractKeywords(rec.ChiefComplaint) {
		b.Bool[k] = v
	}

	hr, hrOK := rec.Vitals.Get(patient.HeartRate)
	sbp, sbpOK := rec.Vitals.Get(patient.BPSystolic)
	rr, rrOK := rec.Vitals.Get(patient.RespiratoryRate)
	spo2, spo2OK := rec.Vitals.Get(patient.OxygenSaturation)
	temp, tempOK := rec.Vitals.Get(patient.Temperature)

	b.Num["heart_rate"] = hr
	b.Num["bp_sys"] = sbp
	b.Num["respiratory_rate"] = rr
	b.Num["oxygen_saturation"] = spo2
	b.Num["temperature"] = temp

	b.Bool["tachypnea"] = rrOK && rr > 20
	b.Bool["hypoxia"] = spo2OK && spo2 < 94
	b.Bool["fever"] = tempOK && temp > 100.4
	b.Bool["hr_gt_100"] = hrOK && hr > 100

	troponinSeries := rec.Labs.Get(patient.Troponin)
	troponinLatest, troponinOK := troponinSeries.Latest()
	b.Num["troponin_latest"] = troponinLatest
	b.Bool["normal_troponin"] = !troponinOK || troponinLatest < 0.05
	if troponinOK {
		b.Num["troponin_trend_ratio"] = trendRatio(troponinSeries)
	}

	ddimer, ddOK := rec.Labs.Latest(patient.DDimer)
	b.Bool["elevated_d_dimer"] = ddOK && ddimer > 500

	wbc, wbcOK := rec.Labs.Latest(patient.WBC)
	b.Num["wbc"] = wbc
	b.Bool["wbc_elevated"] = wbcOK && wbc > 11
	b.Bool["wbc_gt_12"] = wbcOK && wbc > 12

	lipase, lipaseOK := rec.Labs.Latest(patient.Lipase)
	b.Num["lipase"] = lipase
	b.Bool["lipase_elevated"] = lipaseOK && lipase > 180

	amylase, amylaseOK := rec.Labs.Latest(patient.Amylase)
	b.Num["amylase"] = amylase
	b.Bool["amylase_elevated"] = amylaseOK && amylase > 300

	b.Bool["female"] = rec.Sex == patient.SexFemale
	b.Num["age"] = float64(rec.Age)
	b.Bool["age_ge_40"] = rec.Age >= 40
	b.Bool["age_in_40_70"] = rec.Age >= 40 && rec.Age <= 70
	b.Bool["age_gt_60"] = rec.Age > 60
	b.Bool["age_gt_65"] = rec.Age > 65
	b.Bool["age_ge_65"] = rec.Age >= 65
	b.Bool["age_20_40"] = rec.Age >= 20 && rec.Age <= 40
	b.Bool["age_41_60"] = rec.Age >= 41 && rec.Age <= 60
	b.Bool["age_lt_40"] = rec.Age < 40
	b.Bool["age_15_35"] = rec.Age >= 15 && rec.Age <= 35
	b.Bool["age_gt_75"] = rec.Age > 75

	b.Bool["history_gerd"] = rec.HasICD(ICDGERD)
	b.Bool["history_pud"] = rec.HasAnyICD(ICDUlcer1, ICDUlcer2)
	b.Bool["history_gallstones"] = rec.HasAnyICD(ICDCholelithiasis1, ICDCholelithiasis2)
	b.Bool["history_pancreatitis"] = rec.HasICD(ICDPancreatitis)

	riskFactorCount := matchCount(rec.ICDCodes, hypertensionCodes, diabetesCodes)
	b.Num["cardiac_risk_factor_count"] = float64(riskFactorCount)

	b.Bool["chest_pain_presentation"] = true // root SafetyAgent/Cardiology invocation is always chest-pain protocol.

	return b
}

// trendRatio splits a lab series at its midpoint and returns the ratio of
// the second half's average to the first half's, per spec.md §4.1.
func trendRatio(s patient.LabSeries) float64 {
	n := len(s)
	if n < 2 {
		return 1
	}
	mid := n / 2
	var firstSum, secondSum float64
	for _, p := range s[:mid] {
		firstSum += p.Value
	}
	for _, p := range s[mid:] {
		secondSum += p.Value
	}
	firstAvg := firstSum / float64(mid)
	secondAvg := secondSum / float64(n-mid)
	if firstAvg == 0 {
		return 1
	}
	return secondAvg / firstAvg
}
