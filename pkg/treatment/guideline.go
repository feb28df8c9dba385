// Package treatment implements the guideline lookup and tailoring logic of
// spec.md §4.6.
package treatment

import "github.com/clinical/chestpain-copilot/pkg/diagnosis"

// Guideline is a static ClinicalGuideline entry.
type Guideline struct {
	ImmediateActions    []string
	FirstLineTherapies  []string
	AlternativeTherapies []string
	Contraindications   []string
	MonitoringPlan      []string
	EvidenceGrade       string
	Source              string
}

var genericGuideline = Guideline{
	ImmediateActions:    []string{"Specialist consult", "Symptomatic management"},
	FirstLineTherapies:  []string{"Per consulting specialist"},
	MonitoringPlan:      []string{"Reassess per specialty recommendation"},
	EvidenceGrade:       "C",
	Source:              "Institutional consult pathway",
}

// guidelines is the fixed ClinicalGuideline table spec.md §4.6 references:
// "Guidelines for STEMI, NSTEMI, Unstable Angina, and Massive PE are
// enumerated; any other diagnosis yields a generic consult guideline."
var guidelines = map[diagnosis.Kind]Guideline{
	diagnosis.STEMI: {
		ImmediateActions:    []string{"Activate cath lab", "Aspirin 325mg chewed", "Oxygen if SpO2 < 90%"},
		FirstLineTherapies:  []string{"Aspirin", "P2Y12 inhibitor", "Unfractionated heparin", "Primary PCI"},
		AlternativeTherapies: []string{"Fibrinolysis if PCI unavailable within 120 minutes"},
		Contraindications:   []string{"Active bleeding", "Recent hemorrhagic stroke"},
		MonitoringPlan:      []string{"Continuous telemetry", "Serial ECGs", "Troponin every 3-6h"},
		EvidenceGrade:       "A",
		Source:              "ACC/AHA STEMI Guideline",
	},
	diagnosis.NSTEMI: {
		ImmediateActions:    []string{"Aspirin 325mg chewed", "Oxygen if SpO2 < 90%", "Cardiology consult"},
		FirstLineTherapies:  []string{"Aspirin", "P2Y12 inhibitor", "Anticoagulation", "Beta-blocker if no contraindication"},
		AlternativeTherapies: []string{"Conservative management pending risk stratification"},
		Contraindications:   []string{"Active bleeding", "Severe hypotension"},
		MonitoringPlan:      []string{"Telemetry", "Serial troponins", "Risk-stratify for early invasive strategy"},
		EvidenceGrade:       "A",
		Source:              "ACC/AHA NSTE-ACS Guideline",
	},
	diagnosis.UnstableAngina: {
		ImmediateActions:    []string{"Aspirin 325mg chewed", "Cardiology consult"},
		FirstLineTherapies:  []string{"Aspirin", "P2Y12 inhibitor", "Anticoagulation"},
		AlternativeTherapies: []string{"Outpatient stress testing if low risk"},
		Contraindications:   []string{"Active bleeding"},
		MonitoringPlan:      []string{"Telemetry", "Serial troponins"},
		EvidenceGrade:       "B",
		Source:              "ACC/AHA NSTE-ACS Guideline",
	},
	diagnosis.MassivePE: {
		ImmediateActions:    []string{"Hemodynamic support", "STAT CT pulmonary angiogram", "Consider systemic thrombolysis"},
		FirstLineTherapies:  []string{"Systemic anticoagulation", "Thrombolysis if hemodynamically unstable"},
		AlternativeTherapies: []string{"Catheter-directed thrombolysis", "Surgical embolectomy"},
		Contraindications:   []string{"Active bleeding", "Recent major surgery", "Recent hemorrhagic stroke"},
		MonitoringPlan:      []string{"Continuous telemetry", "Serial vitals", "Repeat imaging as indicated"},
		EvidenceGrade:       "A",
		Source:              "ACCP/ESC PE Guideline",
	},
}

// lookup returns the guideline for kind, falling back to the generic
// consult guideline when kind is not one of the enumerated emergencies.
func lookup(kind diagnosis.Kind) Guideline {
	if g, ok := guidelines[kind]; ok {
		return g
	}
	return genericGuideline
}
