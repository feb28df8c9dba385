package treatment

import (
	"strings"

	"github.com/clinical/chestpain-copilot/pkg/diagnosis"
	"github.com/clinical/chestpain-copilot/pkg/patient"
)

// Plan is the pure-data treatment plan output of the Planner (spec.md §4.6).
type Plan struct {
	Diagnosis          diagnosis.Kind
	ImmediateActions   []string
	Medications        []string
	AlternativeTherapies []string
	ContraindicationFlags []string
	MonitoringSchedule []string
	FollowUpSchedule   []string
	PatientEducation   []string
	EvidenceGrade      string
	Source             string
}

// Planner computes a Plan from a primary diagnosis and the patient record.
type Planner struct{}

func NewPlanner() *Planner { return &Planner{} }

// contraindicationFlags implements spec.md §4.6 step 2. Platelet count is
// named by the spec but is not in the closed lab-name set of spec.md §3, so
// severe_thrombocytopenia is always false here: a hook with no data source
// rather than a guess at an out-of-band lab.
func contraindicationFlags(rec *patient.Record) []string {
	var flags []string
	if rec.Age > 75 {
		flags = append(flags, "advanced_age")
	}
	if creatinine, ok := rec.Labs.Latest(patient.Creatinine); ok && creatinine > 2.0 {
		flags = append(flags, "renal_impairment")
	}
	if sbp, ok := rec.Vitals.Get(patient.BPSystolic); ok && sbp < 90 {
		flags = append(flags, "hypotension")
	}
	return flags
}

// medicationCautions maps a contraindication flag to the medication-name
// substrings it rules out from the guideline's therapy lists.
var medicationCautions = map[string][]string{
	"severe_thrombocytopenia": {"aspirin", "p2y12", "anticoagulat", "heparin", "thrombolysis"},
	"hypotension":             {"beta-blocker"},
}

func filterMedications(meds []string, flags []string) []string {
	flagSet := make(map[string]bool, len(flags))
	for _, f := range flags {
		flagSet[f] = true
	}

	var out []string
	for _, med := range meds {
		excluded := false
		lowerMed := strings.ToLower(med)
		for flag, cautioned := range medicationCautions {
			if !flagSet[flag] {
				continue
			}
			for _, c := range cautioned {
				if strings.Contains(lowerMed, c) {
					excluded = true
					break
				}
			}
			if excluded {
				break
			}
		}
		if !excluded {
			out = append(out, med)
		}
	}
	return out
}

func monitoringSchedule(esiLike []string, flags []string) []string {
	schedule := append([]string{}, esiLike...)
	for _, f := range flags {
		switch f {
		case "renal_impairment":
			schedule = append(schedule, "Renal-dose adjust anticoagulation, recheck creatinine in 6-12h")
		case "advanced_age":
			schedule = append(schedule, "Heightened bleeding-risk monitoring")
		case "hypotension":
			schedule = append(schedule, "Hourly blood pressure checks until stable")
		}
	}
	return schedule
}

func followUpSchedule(kind diagnosis.Kind) []string {
	switch kind {
	case diagnosis.STEMI, diagnosis.NSTEMI, diagnosis.MassivePE:
		return []string{"Cardiology/pulmonology follow-up within 72 hours of discharge"}
	case diagnosis.UnstableAngina:
		return []string{"Cardiology follow-up within 1 week", "Outpatient stress test if not done inpatient"}
	default:
		return []string{"Primary care follow-up within 1-2 weeks"}
	}
}

func patientEducation(kind diagnosis.Kind) []string {
	switch kind {
	case diagnosis.STEMI, diagnosis.NSTEMI, diagnosis.UnstableAngina:
		return []string{"Return immediately for recurrent or worsening chest pain", "Medication adherence counseling", "Smoking cessation counseling if applicable"}
	case diagnosis.MassivePE, diagnosis.PE:
		return []string{"Return immediately for worsening shortness of breath or bleeding", "Anticoagulation adherence and bleeding-precaution counseling"}
	default:
		return []string{"Return if symptoms worsen or new red-flag symptoms develop"}
	}
}

// Plan computes the tailored treatment plan for primary given rec, per
// spec.md §4.6. A nil primary yields the generic consult guideline.
func (p *Planner) Plan(primary *diagnosis.Result, rec *patient.Record) Plan {
	kind := diagnosis.Unknown
	if primary != nil {
		kind = primary.Kind
	}
	guideline := lookup(kind)
	flags := contraindicationFlags(rec)

	meds := filterMedications(guideline.FirstLineTherapies, flags)

	return Plan{
		Diagnosis:             kind,
		ImmediateActions:      guideline.ImmediateActions,
		Medications:           meds,
		AlternativeTherapies:  guideline.AlternativeTherapies,
		ContraindicationFlags: flags,
		MonitoringSchedule:    monitoringSchedule(guideline.MonitoringPlan, flags),
		FollowUpSchedule:      followUpSchedule(kind),
		PatientEducation:      patientEducation(kind),
		EvidenceGrade:         guideline.EvidenceGrade,
		Source:                guideline.Source,
	}
}
