package agents

import (
	"github.com/clinical/chestpain-copilot/pkg/diagnosis"
	"github.com/clinical/chestpain-copilot/pkg/features"
	"github.com/clinical/chestpain-copilot/pkg/patient"
	"github.com/clinical/chestpain-copilot/pkg/specialty"
)

// CardiologyCore implements spec.md §4.3.2: a latest-troponin root hypothesis
// plus an ACS sub-agent (HEART score) spawned on high entropy.
type CardiologyCore struct {
	// acs marks an instance as the ACS sub-agent rather than the root agent;
	// the ACS sub-agent never recurses further.
	acs bool
}

func NewCardiology() *Agent { return New(&CardiologyCore{}) }

func (c *CardiologyCore) Tag() specialty.Tag { return specialty.Cardiology }

func (c *CardiologyCore) Hypothesize(rec *patient.Record, bag features.Bag, depth int) []diagnosis.Result {
	if c.acs {
		return c.hypothesizeACS(rec, bag, depth)
	}
	return c.hypothesizeRoot(rec, bag, depth)
}

func (c *CardiologyCore) hypothesizeRoot(rec *patient.Record, bag features.Bag, depth int) []diagnosis.Result {
	troponin := bag.N("troponin_latest")
	series := rec.Labs.Get(patient.Troponin)
	_, hasTroponin := series.Latest()
	rising := series.Trend() == patient.TrendRising

	var r diagnosis.Result
	switch {
	case hasTroponin && troponin >= 0.5:
		conf := 0.7
		if rising {
			conf = 0.85
		}
		r = diagnosis.New(diagnosis.NSTEMI, conf, diagnosis.High, string(specialty.Cardiology), depth)
		r.Reasoning = "Troponin >= 0.5 ng/mL is consistent with NSTEMI."
	case hasTroponin && troponin >= 0.05:
		conf := 0.5
		if rising {
			conf = 0.7
		}
		r = diagnosis.New(diagnosis.NSTEMI, conf, diagnosis.High, string(specialty.Cardiology), depth)
		r.Reasoning = "Troponin in the 0.05-0.5 ng/mL indeterminate band is consistent with NSTEMI."
	default:
		r = diagnosis.New(diagnosis.StableAngina, 0.3, diagnosis.Moderate, string(specialty.Cardiology), depth)
		r.Reasoning = "Troponin below 0.05 ng/mL; stable angina is the working hypothesis."
	}
	r.SupportingEvidence["troponin_latest"] = troponin
	r.SupportingEvidence["troponin_trend"] = string(series.Trend())
	r.Recommendations = []string{"Serial troponins", "12-lead ECG", "Cardiology consult"}
	return []diagnosis.Result{r}
}

// hypothesizeACS implements the HEART score from spec.md §4.3.2.
func (c *CardiologyCore) hypothesizeACS(rec *patient.Record, bag features.Bag, depth int) []diagnosis.Result {
	heart := 0

	// History: fixed +2 for "chest pain" presentation (always true at root
	// invocation of the chest-pain protocol).
	heart += 2

	// EKG: +0 in the absence of a signal input (spec.md §4.3.2).

	age := rec.Age
	switch {
	case age >= 65:
		heart += 2
	case age >= 45:
		heart += 1
	}

	riskFactors := int(bag.N("cardiac_risk_factor_count"))
	switch {
	case riskFactors >= 3:
		heart += 2
	case riskFactors >= 1:
		heart += 1
	}

	troponin := bag.N("troponin_latest")
	switch {
	case troponin >= 3*0.04:
		heart += 2
	case troponin >= 0.04:
		heart += 1
	}

	series := rec.Labs.Get(patient.Troponin)
	_, hasTroponin := series.Latest()
	rising := series.Trend() == patient.TrendRising

	var r diagnosis.Result
	if hasTroponin && troponin >= 0.05 {
		conf := 0.7
		if rising {
			conf = 0.85
		}
		risk := diagnosis.Moderate
		if heart >= 7 {
			risk = diagnosis.High
		}
		r = diagnosis.New(diagnosis.NSTEMI, conf, risk, string(specialty.Cardiology), depth)
		r.Reasoning = "Elevated troponin with HEART score context is consistent with NSTEMI."
	} else {
		r = diagnosis.New(diagnosis.UnstableAngina, 0.6, diagnosis.Moderate, string(specialty.Cardiology), depth)
		r.Reasoning = "HEART score suggests unstable angina without a qualifying troponin elevation."
	}
	r.SupportingEvidence["heart_score"] = heart
	r.SupportingEvidence["risk_factor_count"] = riskFactors
	r.Recommendations = []string{"Cardiology consult", "Risk-stratified disposition per HEART pathway"}
	return []diagnosis.Result{r}
}

func (c *CardiologyCore) IdentifySubspecialties(_ []diagnosis.Result) []string {
	if c.acs {
		return nil // the ACS sub-agent is a leaf: it never spawns further children.
	}
	return []string{"ACS"}
}

func (c *CardiologyCore) SpawnChild(subTag string) Core {
	if subTag == "ACS" {
		return &CardiologyCore{acs: true}
	}
	return nil
}

func (c *CardiologyCore) Fallback() diagnosis.Result {
	r := diagnosis.New(diagnosis.NonCardiacChestPain, 0.1, diagnosis.Low, string(specialty.Cardiology), 0)
	r.Reasoning = "No cardiac hypothesis cleared the emission floor."
	r.Recommendations = []string{"Continue standard chest-pain workup"}
	return r
}
