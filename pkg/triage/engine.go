package triage

import (
	"github.com/clinical/chestpain-copilot/pkg/diagnosis"
	"github.com/clinical/chestpain-copilot/pkg/patient"
)

// Engine computes a Score from a PatientRecord and an optional primary
// diagnosis, per spec.md §4.5.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// immediateLifeSaving implements step 1 (ESI 1).
func immediateLifeSaving(rec *patient.Record, primary *diagnosis.Result) (bool, []string) {
	var rationale []string
	trigger := false

	if primary != nil && (primary.Kind == diagnosis.STEMI || primary.Kind == diagnosis.MassivePE) {
		trigger = true
		rationale = append(rationale, "diagnosis is "+string(primary.Kind))
	}
	if sbp, ok := rec.Vitals.Get(patient.BPSystolic); ok && sbp < 80 {
		trigger = true
		rationale = append(rationale, "systolic BP < 80")
	}
	if spo2, ok := rec.Vitals.Get(patient.OxygenSaturation); ok && spo2 < 85 {
		trigger = true
		rationale = append(rationale, "SpO2 < 85%")
	}
	if hr, ok := rec.Vitals.Get(patient.HeartRate); ok && (hr < 40 || hr > 150) {
		trigger = true
		rationale = append(rationale, "heart rate < 40 or > 150")
	}
	return trigger, rationale
}

// highRiskEmergent implements step 2 (ESI 2).
func highRiskEmergent(rec *patient.Record, primary *diagnosis.Result) (bool, []string) {
	var rationale []string
	trigger := false

	if primary != nil && primary.Risk == diagnosis.High {
		trigger = true
		rationale = append(rationale, "diagnosis risk is HIGH")
	}
	if sbp, ok := rec.Vitals.Get(patient.BPSystolic); ok && sbp < 90 {
		trigger = true
		rationale = append(rationale, "systolic BP < 90")
	}
	if spo2, ok := rec.Vitals.Get(patient.OxygenSaturation); ok && spo2 < 90 {
		trigger = true
		rationale = append(rationale, "SpO2 < 90%")
	}
	if primary != nil && (primary.Kind == diagnosis.NSTEMI || primary.Kind == diagnosis.UnstableAngina) {
		trigger = true
		rationale = append(rationale, "diagnosis is "+string(primary.Kind))
	}
	if rec.Age > 75 && primary != nil {
		trigger = true
		rationale = append(rationale, "age > 75 with an active diagnosis")
	}
	return trigger, rationale
}

// predictResources implements the step-3 resource prediction. spec.md §4.5
// references a resource table that the distilled spec text does not
// enumerate; this fills the gap with the smallest rule that reproduces the
// spec's own worked scenarios (S3 -> ESI3, S4 -> ESI4): any primary
// diagnosis warrants a 12-lead ECG, and a MODERATE-risk diagnosis
// additionally warrants cardiac biomarkers and a BMP. With no primary, or
// only the zero-confidence Unknown fallback, no resources are predicted.
func predictResources(primary *diagnosis.Result) []string {
	if primary == nil || (primary.Kind == diagnosis.Unknown && primary.Confidence == 0) {
		return nil
	}
	resources := []string{"12-lead ECG"}
	if primary.Risk == diagnosis.Moderate {
		resources = append(resources, "cardiac biomarkers", "BMP")
	}
	return resources
}

func resourceESI(count int) (int, float64) {
	switch {
	case count >= 2:
		return 3, 60
	case count == 1:
		return 4, 40
	default:
		return 5, 20
	}
}

// flags computes the critical/warning vital-threshold flags that feed the
// priority-score modifiers, reusing the same thresholds as steps 1-2 so a
// flag is never raised without the corresponding ESI criterion.
func flags(rec *patient.Record) (critical, warning []string) {
	if sbp, ok := rec.Vitals.Get(patient.BPSystolic); ok {
		if sbp < 80 {
			critical = append(critical, "systolic_bp_critical")
		} else if sbp < 90 {
			warning = append(warning, "systolic_bp_warning")
		}
	}
	if spo2, ok := rec.Vitals.Get(patient.OxygenSaturation); ok {
		if spo2 < 85 {
			critical = append(critical, "spo2_critical")
		} else if spo2 < 90 {
			warning = append(warning, "spo2_warning")
		}
	}
	if hr, ok := rec.Vitals.Get(patient.HeartRate); ok {
		if hr < 40 || hr > 150 {
			critical = append(critical, "heart_rate_critical")
		}
	}
	return critical, warning
}

const (
	destinationESI1 = "Resuscitation bay -> ICU/cath lab"
	destinationESI2 = "ED bed with telemetry"
	destinationESI3 = "ED bed"
	destinationESI4 = "ED chair / fast-track"
	destinationESI5 = "Waiting area -> fast-track"
)

var nursingRatioByESI = map[int]string{1: "1:1", 2: "1:2-3", 3: "1:4", 4: "1:5-6", 5: "1:6+"}
var waitTimeByESI = map[int]string{1: "0", 2: "<10min", 3: "10-60min", 4: "1-2h", 5: "2-24h"}

func disposition(esi int, primary *diagnosis.Result) string {
	switch esi {
	case 1:
		return "Admit ICU"
	case 2:
		if primary != nil && (primary.Kind == diagnosis.NSTEMI || primary.Kind == diagnosis.UnstableAngina) {
			return "Admit telemetry"
		}
		return "Admit vs Observation"
	case 3:
		return "Observation vs Discharge"
	case 4:
		return "Likely discharge"
	default:
		return "Discharge"
	}
}

func destination(esi int) string {
	switch esi {
	case 1:
		return destinationESI1
	case 2:
		return destinationESI2
	case 3:
		return destinationESI3
	case 4:
		return destinationESI4
	default:
		return destinationESI5
	}
}

// Assess computes a Score for rec given the optional consolidated primary
// diagnosis, implementing spec.md §4.5 steps 1-3 plus priority modifiers.
func (e *Engine) Assess(rec *patient.Record, primary *diagnosis.Result) Score {
	var esi int
	var base float64
	var rationale []string

	if trigger, why := immediateLifeSaving(rec, primary); trigger {
		esi, base = 1, 100
		rationale = why
	} else if trigger, why := highRiskEmergent(rec, primary); trigger {
		esi, base = 2, 85
		rationale = why
	} else {
		resources := predictResources(primary)
		esi, base = resourceESI(len(resources))
		rationale = []string{"resource-based triage"}
		return e.finish(rec, primary, esi, base, resources, rationale)
	}

	return e.finish(rec, primary, esi, base, predictResources(primary), rationale)
}

func (e *Engine) finish(rec *patient.Record, primary *diagnosis.Result, esi int, base float64, resources []string, rationale []string) Score {
	critical, warning := flags(rec)

	priority := base
	switch {
	case rec.Age > 75:
		priority += 5
	case rec.Age > 65:
		priority += 2
	}
	priority += 10 * float64(len(critical))
	priority += 5 * float64(len(warning))
	if primary != nil && primary.Confidence > 0.8 {
		priority += 3
	}
	if priority > 100 {
		priority = 100
	}

	return Score{
		ESILevel:        esi,
		PriorityScore:   priority,
		WaitTimeTarget:  waitTimeByESI[esi],
		Destination:     destination(esi),
		Disposition:     disposition(esi, primary),
		ResourcesNeeded: resources,
		NursingRatio:    nursingRatioByESI[esi],
		MonitoringLevel: monitoringLevel(esi),
		CriticalFlags:   critical,
		WarningFlags:    warning,
		Rationale:       rationale,
	}
}

func monitoringLevel(esi int) string {
	switch esi {
	case 1:
		return "continuous"
	case 2:
		return "telemetry"
	case 3:
		return "periodic"
	default:
		return "routine"
	}
}
